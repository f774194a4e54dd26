package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// StudentService covers the student list, creation and the scorecard page.
type StudentService interface {
	Create(ctx context.Context, p Principal, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Home(ctx context.Context, p Principal) (dto.HomeResponse, error)
	Scorecard(ctx context.Context, p Principal, studentID uint) (dto.ScorecardResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	access    AccessService
	scorecard ScorecardProvider
	awards    AwardReader
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, access AccessService, scorecard ScorecardProvider, awards AwardReader, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		access:    access,
		scorecard: scorecard,
		awards:    awards,
		validator: validate,
		activity:  activity,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, p Principal, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if p.IsAnonymous() {
		return dto.StudentResponse{}, ErrUnauthenticated
	}
	if !p.IsTeacher() {
		return dto.StudentResponse{}, ErrTeacherRequired
	}

	req.Name = plainText(s.sanitizer, req.Name)
	req.Level = plainText(s.sanitizer, req.Level)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.Goal = plainText(s.sanitizer, req.Goal)
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	teacherID := p.UserID
	student := models.Student{
		Name:      req.Name,
		Level:     req.Level,
		StartDate: req.StartDate,
		Goal:      req.Goal,
		TeacherID: &teacherID,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrStudentNameTaken
		}
		return dto.StudentResponse{}, fmt.Errorf("create student: %w", err)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:     p,
		Action:    models.ActionStudentCreated,
		StudentID: student.ID,
		Details:   map[string]interface{}{"name": student.Name},
	})
	response := dto.NewStudentResponse(student)
	publishEvent(ctx, s.events, s.logger, EventStudentCreated, response)

	return response, nil
}

func (s *studentService) Home(ctx context.Context, p Principal) (dto.HomeResponse, error) {
	students, err := s.access.VisibleStudents(ctx, p)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return dto.HomeResponse{}, err
		}
		return dto.HomeResponse{}, fmt.Errorf("list students: %w", err)
	}

	return dto.HomeResponse{
		Role:     p.Role,
		Students: dto.NewStudentResponses(students),
	}, nil
}

func (s *studentService) Scorecard(ctx context.Context, p Principal, studentID uint) (dto.ScorecardResponse, error) {
	student, err := s.access.ResolveStudent(ctx, p, studentID)
	if err != nil {
		return dto.ScorecardResponse{}, err
	}

	lessons, err := s.scorecard.Scorecard(ctx, student.ID)
	if err != nil {
		return dto.ScorecardResponse{}, err
	}

	awards, err := s.awards.AwardMap(ctx, student.ID)
	if err != nil {
		return dto.ScorecardResponse{}, err
	}

	return dto.ScorecardResponse{
		Student: dto.NewStudentResponse(student),
		Lessons: dto.NewLessonResponses(lessons),
		Awards:  awards,
	}, nil
}
