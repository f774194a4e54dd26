package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/export"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportService renders a student's scorecard as a spreadsheet.
type ExportService interface {
	Scorecard(ctx context.Context, p Principal, studentID uint) ([]byte, string, error)
}

type exportService struct {
	access    AccessService
	scorecard ScorecardProvider
	awards    AwardReader
	logger    zerolog.Logger
}

// NewExportService constructs the export service.
func NewExportService(access AccessService, scorecard ScorecardProvider, awards AwardReader, logger zerolog.Logger) ExportService {
	return &exportService{
		access:    access,
		scorecard: scorecard,
		awards:    awards,
		logger:    logger.With().Str("component", "export_service").Logger(),
	}
}

func (s *exportService) Scorecard(ctx context.Context, p Principal, studentID uint) ([]byte, string, error) {
	student, err := s.access.ResolveStudent(ctx, p, studentID)
	if err != nil {
		return nil, "", err
	}

	lessons, err := s.scorecard.Scorecard(ctx, student.ID)
	if err != nil {
		return nil, "", err
	}
	awards, err := s.awards.AwardMap(ctx, student.ID)
	if err != nil {
		return nil, "", err
	}

	lessonRows := make([][]string, 0, len(lessons))
	for _, lesson := range lessons {
		sequence := ""
		if lesson.Sequence != nil {
			sequence = strconv.Itoa(*lesson.Sequence)
		}
		lessonRows = append(lessonRows, []string{
			sequence,
			lesson.Date,
			lesson.Topic,
			strconv.Itoa(lesson.Understanding),
			strconv.Itoa(lesson.Participation),
			strconv.Itoa(lesson.HomeworkCoins),
			lesson.Homework,
		})
	}

	keys := make([]string, 0, len(awards))
	for key := range awards {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	awardRows := make([][]string, 0, len(keys))
	for _, key := range keys {
		year, month, _ := strings.Cut(key, "-")
		awardRows = append(awardRows, []string{year, month, strconv.Itoa(awards[key])})
	}

	data, err := export.Workbook([]export.SheetSpec{
		{
			Title:  "Scorecard",
			Header: []string{"#", "Date", "Topic", "Understanding", "Participation", "Homework coins", "Homework"},
			Rows:   lessonRows,
		},
		{
			Title:  "Awards",
			Header: []string{"Year", "Month", "Award"},
			Rows:   awardRows,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("render scorecard workbook: %w", err)
	}

	s.logger.Debug().Uint("student_id", student.ID).Int("bytes", len(data)).Msg("scorecard exported")
	return data, scorecardFilename(student.ID, student.Name), nil
}

func scorecardFilename(studentID uint, name string) string {
	slug := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "student"
	}
	return fmt.Sprintf("scorecard_%d_%s.xlsx", studentID, slug)
}
