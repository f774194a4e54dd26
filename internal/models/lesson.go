package models

import "time"

// Lesson kinds.
const (
	LessonKindScorecard = "scorecard"
	LessonKindScored    = "scored"
)

// DefaultItemMaxScore applies when neither the item nor its lesson carries a max score.
const DefaultItemMaxScore = 10.0

// Lesson is a single session for a student. Scorecard lessons carry a sequence
// number in 1..8; scored lessons carry items and a final score once finished.
type Lesson struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	StudentID     uint         `gorm:"not null;uniqueIndex:idx_lessons_student_sequence" json:"student_id"`
	Date          string       `gorm:"column:date;size:10;not null" json:"date"`
	Kind          string       `gorm:"size:16;not null" json:"kind"`
	Sequence      *int         `gorm:"uniqueIndex:idx_lessons_student_sequence" json:"sequence,omitempty"`
	Topic         string       `gorm:"size:255;not null" json:"topic"`
	Understanding int          `gorm:"not null;default:0" json:"understanding"`
	Participation int          `gorm:"not null;default:0" json:"participation"`
	HomeworkCoins int          `gorm:"not null;default:0" json:"homework_coins"`
	Homework      string       `gorm:"type:text" json:"homework"`
	MaxScore      float64      `gorm:"not null;default:10" json:"max_score"`
	IsFinished    bool         `gorm:"not null;default:false" json:"is_finished"`
	TotalEarned   float64      `gorm:"not null;default:0" json:"total_earned"`
	TotalMax      float64      `gorm:"not null;default:0" json:"total_max"`
	Percentage    float64      `gorm:"not null;default:0" json:"percentage"`
	Comment       string       `gorm:"type:text" json:"comment"`
	FinishedAt    *time.Time   `json:"finished_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Items         []LessonItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`
}

// LessonItem is a scored task inside a lesson.
type LessonItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LessonID    uint      `gorm:"not null;index" json:"lesson_id"`
	ItemName    string    `gorm:"size:255;not null" json:"item_name"`
	ScoreEarned float64   `gorm:"not null;default:0" json:"score_earned"`
	MaxScore    float64   `gorm:"not null;default:10" json:"max_score"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}
