package service

import (
	"math"
	"strings"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// Comments attached to finished lessons.
const (
	CommentNeedsWork = "Needs more work. Let's review this topic again next time."
	CommentGoodWork  = "Good work! Keep it up."
	weakAreasPrefix  = "Weak areas: "
)

// Comment categories used as metric labels.
const (
	CategoryNeedsWork = "needs_work"
	CategoryWeakAreas = "weak_areas"
	CategoryGoodWork  = "good_work"
)

// lowScorePercentage is exclusive: exactly 50.0 is not a low score.
const lowScorePercentage = 50.0

// LessonScore is the outcome of scoring a lesson's items.
type LessonScore struct {
	TotalEarned float64
	TotalMax    float64
	Percentage  float64
	Comment     string
	Category    string
}

// ScoreLesson totals the items and picks the teacher comment. A lesson without
// items scores 0 out of 1 so the percentage stays defined.
func ScoreLesson(items []models.LessonItem) LessonScore {
	var earned, max float64
	weak := make([]string, 0)
	for _, item := range items {
		earned += item.ScoreEarned
		max += item.MaxScore
		if item.ScoreEarned < item.MaxScore/2 {
			weak = append(weak, item.ItemName)
		}
	}
	if len(items) == 0 || max <= 0 {
		max = 1
	}

	score := LessonScore{
		TotalEarned: earned,
		TotalMax:    max,
		Percentage:  roundTo(100*earned/max, 1),
	}

	switch {
	case score.Percentage < lowScorePercentage:
		score.Comment = CommentNeedsWork
		score.Category = CategoryNeedsWork
	case len(weak) > 0:
		score.Comment = weakAreasPrefix + strings.Join(weak, ", ")
		score.Category = CategoryWeakAreas
	default:
		score.Comment = CommentGoodWork
		score.Category = CategoryGoodWork
	}

	return score
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
