package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/models"
)

func TestActivityRecordMasksSecrets(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	teacher := f.teacher(t, "teacher")
	student := f.student(t, teacher, "Ana")

	entry, err := f.activity.Record(ctx, ActivityEntry{
		Actor:     teacher,
		Action:    "Student.Created",
		StudentID: student.ID,
		Details:   map[string]interface{}{"password": "hunter2", "api_token": "abc", "name": "Ana"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ActionStudentCreated, entry.Action)
	require.Equal(t, student.ID, entry.StudentID)
	require.Nil(t, entry.LessonID)
	require.Equal(t, "***", entry.Details["password"])
	require.Equal(t, "***", entry.Details["api_token"])
	require.Equal(t, "Ana", entry.Details["name"])

	_, err = f.activity.Record(ctx, ActivityEntry{Actor: teacher, StudentID: student.ID})
	require.Error(t, err)

	_, err = f.activity.Record(ctx, ActivityEntry{Actor: teacher, Action: models.ActionAwardUpdated})
	require.Error(t, err)
}

func TestActivityListCoversVisibleStudents(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	teacher := f.teacher(t, "teacher")
	other := f.teacher(t, "other")

	_, err := f.students.Create(ctx, teacher, dto.StudentCreateRequest{Name: "Ana"})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, teacher, dto.StudentCreateRequest{Name: "Ben"})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, other, dto.StudentCreateRequest{Name: "Carl"})
	require.NoError(t, err)

	list, err := f.activity.List(ctx, teacher, dto.ActivityListRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.Equal(t, int64(2), list.Pagination.TotalItems)
	require.Equal(t, 2, list.Pagination.TotalPages)
	require.Equal(t, teacher.UserID, list.Items[0].ActorID)

	_, err = f.activity.List(ctx, AnonymousPrincipal(), dto.ActivityListRequest{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestActivityListForLinkedChild(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	teacher := f.teacher(t, "teacher")
	parent := f.parent(t, "parent")
	ana := f.student(t, teacher, "Ana")
	ben := f.student(t, teacher, "Ben")
	f.link(t, parent, ana)

	lesson, err := f.lessons.AddLesson(ctx, teacher, ana.ID, dto.LessonCreateRequest{Topic: "Fractions"})
	require.NoError(t, err)
	_, err = f.awards.Upsert(ctx, teacher, dto.AwardUpsertRequest{StudentID: ana.ID, Year: 2024, Month: 1, Award: 3})
	require.NoError(t, err)
	_, err = f.awards.Upsert(ctx, teacher, dto.AwardUpsertRequest{StudentID: ben.ID, Year: 2024, Month: 1, Award: 2})
	require.NoError(t, err)

	history, err := f.activity.List(ctx, parent, dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), history.Pagination.TotalItems)
	for _, item := range history.Items {
		require.Equal(t, ana.ID, item.StudentID)
	}

	byLesson, err := f.activity.List(ctx, parent, dto.ActivityListRequest{StudentID: &ana.ID, LessonID: &lesson.ID})
	require.NoError(t, err)
	require.Len(t, byLesson.Items, 1)
	require.Equal(t, models.ActionLessonCreated, byLesson.Items[0].Action)

	_, err = f.activity.List(ctx, parent, dto.ActivityListRequest{StudentID: &ben.ID})
	require.ErrorIs(t, err, ErrAccessDenied)
}
