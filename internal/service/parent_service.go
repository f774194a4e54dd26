package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// ParentService links parent accounts to students.
type ParentService interface {
	LinkChild(ctx context.Context, p Principal, req dto.LinkChildRequest) (dto.ParentChildResponse, error)
}

type parentService struct {
	users     repository.UserRepository
	links     repository.ParentChildRepository
	access    AccessService
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
}

// NewParentService constructs the parent link service.
func NewParentService(users repository.UserRepository, links repository.ParentChildRepository, access AccessService, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) ParentService {
	return &parentService{
		users:     users,
		links:     links,
		access:    access,
		validator: validate,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "parent_service").Logger(),
	}
}

func (s *parentService) LinkChild(ctx context.Context, p Principal, req dto.LinkChildRequest) (dto.ParentChildResponse, error) {
	req.ParentUsername = strings.TrimSpace(req.ParentUsername)
	if err := s.validator.Struct(req); err != nil {
		return dto.ParentChildResponse{}, err
	}

	student, err := s.access.ResolveOwnedStudent(ctx, p, req.StudentID)
	if err != nil {
		return dto.ParentChildResponse{}, err
	}

	parent, err := s.findParent(ctx, req)
	if err != nil {
		return dto.ParentChildResponse{}, err
	}
	if !parent.IsParent {
		return dto.ParentChildResponse{}, ErrNotAParent
	}

	link := models.ParentChild{ParentID: parent.ID, StudentID: student.ID}
	if err := s.links.Create(ctx, &link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ParentChildResponse{}, ErrAlreadyLinked
		}
		return dto.ParentChildResponse{}, fmt.Errorf("create parent link: %w", err)
	}

	response := dto.ParentChildResponse{
		ID:             link.ID,
		ParentID:       parent.ID,
		ParentUsername: parent.Username,
		StudentID:      student.ID,
		StudentName:    student.Name,
		CreatedAt:      link.CreatedAt,
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionChildLinked,
		StudentID: student.ID,
		Details:   map[string]interface{}{"parent_id": parent.ID},
	})
	publishEvent(ctx, s.events, s.logger, EventChildLinked, response)

	return response, nil
}

func (s *parentService) findParent(ctx context.Context, req dto.LinkChildRequest) (models.User, error) {
	var (
		user models.User
		err  error
	)
	if req.ParentID != 0 {
		user, err = s.users.GetByID(ctx, req.ParentID)
	} else {
		user, err = s.users.GetByUsername(ctx, req.ParentUsername)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrParentNotFound
		}
		return models.User{}, fmt.Errorf("load parent: %w", err)
	}
	return user, nil
}
