package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/observability"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// Trophy values a teacher may award.
const (
	MinAward = 1
	MaxAward = 4
)

// AwardReader returns the award map of a student keyed by "YYYY-MM".
type AwardReader interface {
	AwardMap(ctx context.Context, studentID uint) (map[string]int, error)
}

// AwardService manages monthly awards and the award calendar.
type AwardService interface {
	AwardReader
	Upsert(ctx context.Context, p Principal, req dto.AwardUpsertRequest) (dto.AwardResponse, error)
	Calendar(ctx context.Context, p Principal, studentID uint, year, month int) (dto.AwardCalendarResponse, error)
}

type awardService struct {
	awards    repository.AwardRepository
	access    AccessService
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAwardService constructs the award service. cache may be nil.
func NewAwardService(awards repository.AwardRepository, access AccessService, validate *validator.Validate, cache *redis.Client, ttl time.Duration, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) AwardService {
	return &awardService{
		awards:    awards,
		access:    access,
		validator: validate,
		cache:     cache,
		cacheTTL:  ttl,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "award_service").Logger(),
		now:       time.Now,
	}
}

func (s *awardService) Upsert(ctx context.Context, p Principal, req dto.AwardUpsertRequest) (dto.AwardResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/tutorbook-api/internal/service/award")
	ctx, span := tracer.Start(ctx, "award.upsert")
	span.SetAttributes(
		attribute.Int64("award.student_id", int64(req.StudentID)),
		attribute.Int("award.year", req.Year),
		attribute.Int("award.month", req.Month),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AwardResponse{}, err
	}
	if req.Award < MinAward || req.Award > MaxAward {
		span.SetStatus(codes.Error, "invalid_award")
		return dto.AwardResponse{}, ErrInvalidAward
	}

	student, err := s.access.ResolveOwnedStudent(ctx, p, req.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_access_failed")
		return dto.AwardResponse{}, err
	}

	award := models.MonthlyAward{
		StudentID: student.ID,
		Year:      req.Year,
		Month:     req.Month,
		Award:     req.Award,
	}
	if err := s.awards.Upsert(ctx, &award); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "award_upsert_failed")
		return dto.AwardResponse{}, fmt.Errorf("upsert award: %w", err)
	}

	stored, err := s.awards.Get(ctx, student.ID, req.Year, req.Month)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "award_reload_failed")
		return dto.AwardResponse{}, fmt.Errorf("reload award: %w", err)
	}

	s.invalidate(ctx, student.ID)
	observability.AwardsUpserted().Inc()

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionAwardUpdated,
		StudentID: student.ID,
		Details:   map[string]interface{}{"year": req.Year, "month": req.Month, "award": req.Award},
	})
	publishEvent(ctx, s.events, s.logger, EventAwardUpdated, dto.NewAwardResponse(stored))

	return dto.NewAwardResponse(stored), nil
}

func (s *awardService) Calendar(ctx context.Context, p Principal, studentID uint, year, month int) (dto.AwardCalendarResponse, error) {
	student, err := s.access.ResolveStudent(ctx, p, studentID)
	if err != nil {
		return dto.AwardCalendarResponse{}, err
	}

	now := s.now()
	if year == 0 || month == 0 {
		year, month = now.Year(), int(now.Month())
	}
	if month < 1 || month > 12 || year < 1 {
		return dto.AwardCalendarResponse{}, ErrInvalidCalendarMonth
	}

	awards, err := s.AwardMap(ctx, student.ID)
	if err != nil {
		return dto.AwardCalendarResponse{}, err
	}

	return dto.AwardCalendarResponse{
		Student:       dto.NewStudentResponse(student),
		SelectedYear:  year,
		SelectedMonth: month,
		Months:        AwardWindow(year, month, awards, now),
	}, nil
}

func (s *awardService) AwardMap(ctx context.Context, studentID uint) (map[string]int, error) {
	cacheKey := awardCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var awards map[string]int
			if unmarshalErr := json.Unmarshal([]byte(cached), &awards); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("award cache hit")
				return awards, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read award cache")
		}
	}

	rows, err := s.awards.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}

	awards := make(map[string]int, len(rows))
	for _, row := range rows {
		awards[dto.AwardKey(row.Year, row.Month)] = row.Award
	}

	if s.cache != nil {
		if payload, err := json.Marshal(awards); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store award cache")
			}
		}
	}

	return awards, nil
}

func (s *awardService) invalidate(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, awardCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate award cache")
	}
}

func awardCacheKey(studentID uint) string {
	return fmt.Sprintf("awards:student:%d", studentID)
}
