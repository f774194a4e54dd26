package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

const defaultActivityPageSize = 20

// ActivityEntry describes a change to a student's records.
type ActivityEntry struct {
	Actor     Principal
	Action    string
	StudentID uint
	LessonID  *uint
	Details   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording activity logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService records and lists student change history.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, p Principal, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	access AccessService
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, access AccessService, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		access: access,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("action is required")
	}
	if entry.StudentID == 0 {
		return dto.ActivityResponse{}, fmt.Errorf("student is required")
	}

	model := models.ActivityLog{
		ActorID:   entry.Actor.UserID,
		ActorRole: actorRole(entry.Actor),
		Action:    strings.ToLower(strings.TrimSpace(entry.Action)),
		StudentID: entry.StudentID,
		LessonID:  entry.LessonID,
		Details:   maskDetails(entry.Details),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Uint("student_id", model.StudentID).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(model), nil
}

// List returns the history of one visible student, or of all of them when
// no student is named.
func (s *activityService) List(ctx context.Context, p Principal, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	if p.IsAnonymous() {
		return dto.ActivityListResponse{}, ErrUnauthenticated
	}

	var studentIDs []uint
	if req.StudentID != nil {
		student, err := s.access.ResolveStudent(ctx, p, *req.StudentID)
		if err != nil {
			return dto.ActivityListResponse{}, err
		}
		studentIDs = []uint{student.ID}
	} else {
		students, err := s.access.VisibleStudents(ctx, p)
		if err != nil {
			return dto.ActivityListResponse{}, err
		}
		studentIDs = make([]uint, 0, len(students))
		for _, student := range students {
			studentIDs = append(studentIDs, student.ID)
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultActivityPageSize
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	entries, total, err := s.repo.History(ctx, repository.ActivityHistoryFilter{
		StudentIDs: studentIDs,
		LessonID:   req.LessonID,
		Action:     strings.ToLower(strings.TrimSpace(req.Action)),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return dto.ActivityListResponse{}, fmt.Errorf("list activity: %w", err)
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	}, nil
}

// recordActivity writes an audit entry and only logs failures.
func recordActivity(ctx context.Context, recorder ActivityRecorder, logger zerolog.Logger, entry ActivityEntry) {
	if recorder == nil {
		return
	}
	if _, err := recorder.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to record activity")
	}
}

func maskDetails(details map[string]interface{}) datatypes.JSONMap {
	masked := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			masked[key] = "***"
			continue
		}
		masked[key] = value
	}
	return masked
}

func actorRole(p Principal) string {
	role := strings.ToLower(strings.TrimSpace(p.Role))
	if role == "" {
		return models.RoleAnonymous
	}
	return role
}

func uintPtr(v uint) *uint {
	return &v
}
