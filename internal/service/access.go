package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// Principal is the identity a request acts as. It is resolved once per request
// and passed explicitly to every service call.
type Principal struct {
	UserID uint
	Role   string
}

// AnonymousPrincipal returns the identity of a caller without a session.
func AnonymousPrincipal() Principal {
	return Principal{Role: models.RoleAnonymous}
}

// IsTeacher reports whether the principal acts as a teacher.
func (p Principal) IsTeacher() bool {
	return p.UserID != 0 && p.Role == models.RoleTeacher
}

// IsParent reports whether the principal acts as a parent.
func (p Principal) IsParent() bool {
	return p.UserID != 0 && p.Role == models.RoleParent
}

// IsAnonymous reports whether the principal carries no usable identity.
func (p Principal) IsAnonymous() bool {
	return !p.IsTeacher() && !p.IsParent()
}

// CanAccessStudent decides visibility of a student. Teachers see the students
// they own, parents see linked students, everyone else sees nothing.
func CanAccessStudent(p Principal, student models.Student, linked bool) bool {
	switch {
	case p.IsTeacher():
		return student.OwnedBy(p.UserID)
	case p.IsParent():
		return linked
	default:
		return false
	}
}

// AccessService resolves students on behalf of a principal.
type AccessService interface {
	ResolveStudent(ctx context.Context, p Principal, studentID uint) (models.Student, error)
	ResolveOwnedStudent(ctx context.Context, p Principal, studentID uint) (models.Student, error)
	VisibleStudents(ctx context.Context, p Principal) ([]models.Student, error)
}

type accessService struct {
	students repository.StudentRepository
	links    repository.ParentChildRepository
}

// NewAccessService constructs the access resolver.
func NewAccessService(students repository.StudentRepository, links repository.ParentChildRepository) AccessService {
	return &accessService{students: students, links: links}
}

func (s *accessService) ResolveStudent(ctx context.Context, p Principal, studentID uint) (models.Student, error) {
	tracer := otel.Tracer("github.com/noah-isme/tutorbook-api/internal/service/access")
	ctx, span := tracer.Start(ctx, "access.resolve_student",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("access.student_id", int64(studentID)),
			attribute.String("access.role", p.Role),
		),
	)
	defer span.End()

	if p.IsAnonymous() {
		span.SetStatus(codes.Error, "unauthenticated")
		return models.Student{}, ErrUnauthenticated
	}

	student, err := s.load(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_lookup_failed")
		return models.Student{}, err
	}

	linked := false
	if p.IsParent() {
		linked, err = s.links.Exists(ctx, p.UserID, student.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "link_lookup_failed")
			return models.Student{}, fmt.Errorf("check parent link: %w", err)
		}
	}

	if !CanAccessStudent(p, student, linked) {
		span.SetStatus(codes.Error, "access_denied")
		return models.Student{}, ErrAccessDenied
	}

	return student, nil
}

func (s *accessService) ResolveOwnedStudent(ctx context.Context, p Principal, studentID uint) (models.Student, error) {
	if p.IsAnonymous() {
		return models.Student{}, ErrUnauthenticated
	}
	if !p.IsTeacher() {
		return models.Student{}, ErrTeacherRequired
	}
	return s.ResolveStudent(ctx, p, studentID)
}

func (s *accessService) VisibleStudents(ctx context.Context, p Principal) ([]models.Student, error) {
	switch {
	case p.IsTeacher():
		return s.students.ListByTeacher(ctx, p.UserID)
	case p.IsParent():
		return s.students.ListByParent(ctx, p.UserID)
	default:
		return nil, ErrUnauthenticated
	}
}

func (s *accessService) load(ctx context.Context, studentID uint) (models.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, fmt.Errorf("load student: %w", err)
	}
	return student, nil
}
