package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/repository"
	"github.com/noah-isme/tutorbook-api/internal/testutil/testdb"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{subject: subject, data: data})
	return nil
}

func (r *recordingPublisher) subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]string, 0, len(r.events))
	for _, event := range r.events {
		subjects = append(subjects, event.subject)
	}
	return subjects
}

// fixture wires every service against a fresh migrated database.
type fixture struct {
	db       *gorm.DB
	events   *recordingPublisher
	access   AccessService
	activity ActivityService
	lessons  LessonService
	awards   AwardService
	students StudentService
	parents  ParentService
	exports  ExportService
	now      time.Time
}

func newFixture(t *testing.T, cache *redis.Client) *fixture {
	t.Helper()

	db := testdb.Open(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := testLogger()
	events := &recordingPublisher{}
	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	studentRepo := repository.NewStudentRepository(db)
	linkRepo := repository.NewParentChildRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	userRepo := repository.NewUserRepository(db)

	access := NewAccessService(studentRepo, linkRepo)
	activity := NewActivityService(repository.NewActivityLogRepository(db), access, logger)

	lessons := NewLessonService(lessonRepo, access, validate, activity, events, logger)
	lessons.(*lessonService).now = func() time.Time { return now }

	awards := NewAwardService(awardRepo, access, validate, cache, time.Minute, activity, events, logger)
	awards.(*awardService).now = func() time.Time { return now }

	return &fixture{
		db:       db,
		events:   events,
		access:   access,
		activity: activity,
		lessons:  lessons,
		awards:   awards,
		students: NewStudentService(studentRepo, access, lessons, awards, validate, activity, events, logger),
		parents:  NewParentService(userRepo, linkRepo, access, validate, activity, events, logger),
		exports:  NewExportService(access, lessons, awards, logger),
		now:      now,
	}
}

func (f *fixture) teacher(t *testing.T, username string) Principal {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "hash", IsTeacher: true}
	require.NoError(t, f.db.Create(&user).Error)
	return Principal{UserID: user.ID, Role: models.RoleTeacher}
}

func (f *fixture) parent(t *testing.T, username string) Principal {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "hash", IsParent: true}
	require.NoError(t, f.db.Create(&user).Error)
	return Principal{UserID: user.ID, Role: models.RoleParent}
}

func (f *fixture) student(t *testing.T, owner Principal, name string) models.Student {
	t.Helper()
	teacherID := owner.UserID
	student := models.Student{Name: name, TeacherID: &teacherID}
	require.NoError(t, f.db.Create(&student).Error)
	return student
}

func (f *fixture) link(t *testing.T, parent Principal, student models.Student) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.ParentChild{ParentID: parent.UserID, StudentID: student.ID}).Error)
}

func (f *fixture) scoredLesson(t *testing.T, student models.Student, topic string) models.Lesson {
	t.Helper()
	lesson := models.Lesson{StudentID: student.ID, Date: "2024-01-15", Kind: models.LessonKindScored, Topic: topic, MaxScore: 10}
	require.NoError(t, f.db.Create(&lesson).Error)
	return lesson
}

func intRef(v int) *int {
	return &v
}

func floatRef(v float64) *float64 {
	return &v
}
