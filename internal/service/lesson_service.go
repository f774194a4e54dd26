package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/observability"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// ScorecardSize is the number of placeholder lessons every student page shows.
const ScorecardSize = 8

// CoinField is the closed set of coin counters a teacher may set on a lesson.
type CoinField int

const (
	CoinUnderstanding CoinField = iota + 1
	CoinParticipation
	CoinHomework
)

// ParseCoinField maps a request coin type onto the closed set.
func ParseCoinField(value string) (CoinField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "understanding":
		return CoinUnderstanding, nil
	case "participation":
		return CoinParticipation, nil
	case "homework":
		return CoinHomework, nil
	default:
		return 0, ErrInvalidCoinType
	}
}

func (f CoinField) String() string {
	switch f {
	case CoinUnderstanding:
		return "understanding"
	case CoinParticipation:
		return "participation"
	case CoinHomework:
		return "homework"
	default:
		return "unknown"
	}
}

func (f CoinField) column() (repository.CoinColumn, error) {
	switch f {
	case CoinUnderstanding:
		return repository.CoinColumnUnderstanding, nil
	case CoinParticipation:
		return repository.CoinColumnParticipation, nil
	case CoinHomework:
		return repository.CoinColumnHomework, nil
	default:
		return "", ErrInvalidCoinType
	}
}

// ScorecardProvider returns the provisioned scorecard lessons of a student.
type ScorecardProvider interface {
	Scorecard(ctx context.Context, studentID uint) ([]models.Lesson, error)
}

// LessonService covers scorecard provisioning, coins, scored lessons and finishing.
type LessonService interface {
	ScorecardProvider
	EnsureScorecard(ctx context.Context, studentID uint) (int, error)
	SetCoins(ctx context.Context, p Principal, lessonID uint, coinType string, req dto.SetCoinsRequest) (dto.LessonResponse, error)
	UpdateHomework(ctx context.Context, p Principal, lessonID uint, req dto.UpdateHomeworkRequest) (dto.LessonResponse, error)
	AddLesson(ctx context.Context, p Principal, studentID uint, req dto.LessonCreateRequest) (dto.LessonResponse, error)
	ListScored(ctx context.Context, p Principal, studentID uint) ([]dto.LessonResponse, error)
	AddItem(ctx context.Context, p Principal, lessonID uint, req dto.LessonItemCreateRequest) (dto.LessonItemResponse, error)
	Finish(ctx context.Context, p Principal, lessonID uint, req dto.FinishLessonRequest) (dto.LessonResponse, error)
	Details(ctx context.Context, p Principal, lessonID uint) (dto.LessonDetailResponse, error)
}

type lessonService struct {
	lessons   repository.LessonRepository
	access    AccessService
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLessonService constructs the lesson service.
func NewLessonService(lessons repository.LessonRepository, access AccessService, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:   lessons,
		access:    access,
		validator: validate,
		activity:  activity,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "lesson_service").Logger(),
		now:       time.Now,
	}
}

// EnsureScorecard creates a placeholder for every sequence number in
// 1..ScorecardSize the student lacks. It returns how many rows were created.
func (s *lessonService) EnsureScorecard(ctx context.Context, studentID uint) (int, error) {
	existing, err := s.lessons.ScorecardSequences(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("load scorecard sequences: %w", err)
	}

	present := make(map[int]struct{}, len(existing))
	for _, seq := range existing {
		present[seq] = struct{}{}
	}

	today := s.now().Format(models.DateLayout)
	missing := make([]models.Lesson, 0, ScorecardSize)
	for seq := 1; seq <= ScorecardSize; seq++ {
		if _, ok := present[seq]; ok {
			continue
		}
		sequence := seq
		missing = append(missing, models.Lesson{
			StudentID: studentID,
			Date:      today,
			Kind:      models.LessonKindScorecard,
			Sequence:  &sequence,
			Topic:     fmt.Sprintf("Lesson %d", seq),
			MaxScore:  models.DefaultItemMaxScore,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	created, err := s.lessons.CreateScorecard(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("create scorecard lessons: %w", err)
	}

	if created > 0 {
		observability.LessonsProvisioned().Add(float64(created))
		s.logger.Info().Uint("student_id", studentID).Int64("created", created).Msg("scorecard lessons provisioned")
	}
	return int(created), nil
}

func (s *lessonService) Scorecard(ctx context.Context, studentID uint) ([]models.Lesson, error) {
	if _, err := s.EnsureScorecard(ctx, studentID); err != nil {
		return nil, err
	}
	lessons, err := s.lessons.ListScorecard(ctx, studentID, ScorecardSize)
	if err != nil {
		return nil, fmt.Errorf("list scorecard lessons: %w", err)
	}
	return lessons, nil
}

func (s *lessonService) SetCoins(ctx context.Context, p Principal, lessonID uint, coinType string, req dto.SetCoinsRequest) (dto.LessonResponse, error) {
	field, err := ParseCoinField(coinType)
	if err != nil {
		return dto.LessonResponse{}, err
	}
	column, err := field.column()
	if err != nil {
		return dto.LessonResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.ownedLesson(ctx, p, lessonID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	if err := s.lessons.SetCoins(ctx, lesson.ID, column, *req.Value); err != nil {
		return dto.LessonResponse{}, s.mapLessonError(err)
	}

	switch field {
	case CoinUnderstanding:
		lesson.Understanding = *req.Value
	case CoinParticipation:
		lesson.Participation = *req.Value
	case CoinHomework:
		lesson.HomeworkCoins = *req.Value
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionCoinsSet,
		StudentID: lesson.StudentID,
		LessonID:  uintPtr(lesson.ID),
		Details:   map[string]interface{}{"coin": field.String(), "value": *req.Value},
	})

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) UpdateHomework(ctx context.Context, p Principal, lessonID uint, req dto.UpdateHomeworkRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.ownedLesson(ctx, p, lessonID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	homework := s.clean(req.Homework)
	if err := s.lessons.UpdateHomework(ctx, lesson.ID, homework); err != nil {
		return dto.LessonResponse{}, s.mapLessonError(err)
	}
	lesson.Homework = homework

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionHomeworkUpdated,
		StudentID: lesson.StudentID,
		LessonID:  uintPtr(lesson.ID),
	})

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) AddLesson(ctx context.Context, p Principal, studentID uint, req dto.LessonCreateRequest) (dto.LessonResponse, error) {
	req.Topic = s.clean(req.Topic)
	if err := s.validator.Struct(req); err != nil {
		return dto.LessonResponse{}, err
	}

	student, err := s.access.ResolveOwnedStudent(ctx, p, studentID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().Format(models.DateLayout)
	}
	maxScore := req.MaxScore
	if maxScore <= 0 {
		maxScore = models.DefaultItemMaxScore
	}

	lesson := models.Lesson{
		StudentID: student.ID,
		Date:      date,
		Kind:      models.LessonKindScored,
		Topic:     req.Topic,
		MaxScore:  maxScore,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, fmt.Errorf("create lesson: %w", err)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionLessonCreated,
		StudentID: student.ID,
		LessonID:  uintPtr(lesson.ID),
		Details:   map[string]interface{}{"topic": lesson.Topic},
	})

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) ListScored(ctx context.Context, p Principal, studentID uint) ([]dto.LessonResponse, error) {
	student, err := s.access.ResolveStudent(ctx, p, studentID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListScored(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("list scored lessons: %w", err)
	}
	return dto.NewLessonResponses(lessons), nil
}

func (s *lessonService) AddItem(ctx context.Context, p Principal, lessonID uint, req dto.LessonItemCreateRequest) (dto.LessonItemResponse, error) {
	req.ItemName = s.clean(req.ItemName)
	if err := s.validator.Struct(req); err != nil {
		return dto.LessonItemResponse{}, err
	}

	lesson, err := s.ownedLesson(ctx, p, lessonID)
	if err != nil {
		return dto.LessonItemResponse{}, err
	}
	if lesson.IsFinished {
		return dto.LessonItemResponse{}, ErrLessonFinished
	}

	maxScore := req.MaxScore
	if maxScore <= 0 {
		maxScore = lesson.MaxScore
	}
	if maxScore <= 0 {
		maxScore = models.DefaultItemMaxScore
	}

	item := models.LessonItem{
		LessonID:    lesson.ID,
		ItemName:    req.ItemName,
		ScoreEarned: *req.ScoreEarned,
		MaxScore:    maxScore,
		Notes:       s.clean(req.Notes),
	}
	if err := s.lessons.AddItem(ctx, &item); err != nil {
		return dto.LessonItemResponse{}, fmt.Errorf("add lesson item: %w", err)
	}

	return dto.NewLessonItemResponse(item), nil
}

func (s *lessonService) Finish(ctx context.Context, p Principal, lessonID uint, req dto.FinishLessonRequest) (dto.LessonResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/tutorbook-api/internal/service/lesson")
	ctx, span := tracer.Start(ctx, "lesson.finish")
	span.SetAttributes(
		attribute.Int64("lesson.id", int64(lessonID)),
		attribute.Int64("lesson.actor_id", int64(p.UserID)),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.LessonResponse{}, err
	}

	lesson, err := s.ownedLesson(ctx, p, lessonID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lesson_lookup_failed")
		return dto.LessonResponse{}, err
	}
	if lesson.IsFinished {
		span.SetStatus(codes.Error, "already_finished")
		return dto.LessonResponse{}, ErrLessonFinished
	}

	items, err := s.lessons.ListItems(ctx, lesson.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "items_lookup_failed")
		return dto.LessonResponse{}, fmt.Errorf("list lesson items: %w", err)
	}

	homework := s.clean(req.Homework)
	if homework == "" {
		homework = lesson.Homework
	}

	score := ScoreLesson(items)
	finishedAt := s.now().UTC()
	result := repository.LessonResult{
		TotalEarned: score.TotalEarned,
		TotalMax:    score.TotalMax,
		Percentage:  score.Percentage,
		Comment:     score.Comment,
		Homework:    homework,
		FinishedAt:  finishedAt,
	}

	updated, err := s.lessons.MarkFinished(ctx, lesson.ID, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lesson_update_failed")
		return dto.LessonResponse{}, fmt.Errorf("finish lesson: %w", err)
	}
	if !updated {
		span.SetStatus(codes.Error, "already_finished")
		return dto.LessonResponse{}, ErrLessonFinished
	}

	lesson.IsFinished = true
	lesson.TotalEarned = score.TotalEarned
	lesson.TotalMax = score.TotalMax
	lesson.Percentage = score.Percentage
	lesson.Comment = score.Comment
	lesson.Homework = result.Homework
	lesson.FinishedAt = &finishedAt
	lesson.Items = items

	span.SetAttributes(
		attribute.Float64("lesson.percentage", score.Percentage),
		attribute.String("lesson.comment_category", score.Category),
	)
	observability.LessonsFinished().WithLabelValues(score.Category).Inc()

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionLessonFinished,
		StudentID: lesson.StudentID,
		LessonID:  uintPtr(lesson.ID),
		Details: map[string]interface{}{
			"percentage": score.Percentage,
			"items":      len(items),
		},
	})
	publishEvent(ctx, s.events, s.logger, EventLessonFinished, map[string]interface{}{
		"lesson_id":  lesson.ID,
		"student_id": lesson.StudentID,
		"percentage": score.Percentage,
		"comment":    score.Comment,
	})

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Details(ctx context.Context, p Principal, lessonID uint) (dto.LessonDetailResponse, error) {
	if p.IsAnonymous() {
		return dto.LessonDetailResponse{}, ErrUnauthenticated
	}

	lesson, err := s.lessons.GetWithItems(ctx, lessonID)
	if err != nil {
		return dto.LessonDetailResponse{}, s.mapLessonError(err)
	}

	student, err := s.access.ResolveStudent(ctx, p, lesson.StudentID)
	if err != nil {
		return dto.LessonDetailResponse{}, err
	}

	return dto.LessonDetailResponse{
		Student: dto.NewStudentResponse(student),
		Lesson:  dto.NewLessonResponse(lesson),
	}, nil
}

// ownedLesson loads a lesson the principal may change: the caller must be the
// teacher who owns the lesson's student.
func (s *lessonService) ownedLesson(ctx context.Context, p Principal, lessonID uint) (models.Lesson, error) {
	if p.IsAnonymous() {
		return models.Lesson{}, ErrUnauthenticated
	}
	if !p.IsTeacher() {
		return models.Lesson{}, ErrTeacherRequired
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return models.Lesson{}, s.mapLessonError(err)
	}

	if _, err := s.access.ResolveOwnedStudent(ctx, p, lesson.StudentID); err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

func (s *lessonService) mapLessonError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLessonNotFound
	}
	if errors.Is(err, repository.ErrUnknownCoinColumn) {
		return ErrInvalidCoinType
	}
	return fmt.Errorf("lesson store: %w", err)
}

func (s *lessonService) clean(value string) string {
	return plainText(s.sanitizer, value)
}
