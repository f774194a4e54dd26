package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

func TestCanAccessStudent(t *testing.T) {
	owner := uint(7)
	student := models.Student{ID: 1, Name: "Ana", TeacherID: &owner}
	orphan := models.Student{ID: 2, Name: "Ben"}

	cases := []struct {
		name      string
		principal Principal
		student   models.Student
		linked    bool
		want      bool
	}{
		{"owner teacher", Principal{UserID: 7, Role: models.RoleTeacher}, student, false, true},
		{"other teacher", Principal{UserID: 8, Role: models.RoleTeacher}, student, false, false},
		{"teacher on unowned student", Principal{UserID: 7, Role: models.RoleTeacher}, orphan, false, false},
		{"linked parent", Principal{UserID: 9, Role: models.RoleParent}, student, true, true},
		{"unlinked parent", Principal{UserID: 9, Role: models.RoleParent}, student, false, false},
		{"anonymous", AnonymousPrincipal(), student, true, false},
		{"teacher role without id", Principal{Role: models.RoleTeacher}, orphan, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanAccessStudent(tc.principal, tc.student, tc.linked))
		})
	}
}

func TestResolveStudent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	owner := f.teacher(t, "owner")
	other := f.teacher(t, "other")
	linked := f.parent(t, "linked")
	stranger := f.parent(t, "stranger")
	student := f.student(t, owner, "Ana")
	f.link(t, linked, student)

	got, err := f.access.ResolveStudent(ctx, owner, student.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.Name)

	_, err = f.access.ResolveStudent(ctx, linked, student.ID)
	require.NoError(t, err)

	_, err = f.access.ResolveStudent(ctx, other, student.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.access.ResolveStudent(ctx, stranger, student.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.access.ResolveStudent(ctx, AnonymousPrincipal(), student.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.access.ResolveStudent(ctx, owner, student.ID+100)
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.access.ResolveOwnedStudent(ctx, linked, student.ID)
	require.ErrorIs(t, err, ErrTeacherRequired)
}

func TestVisibleStudents(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	owner := f.teacher(t, "owner")
	other := f.teacher(t, "other")
	parent := f.parent(t, "parent")
	zoe := f.student(t, owner, "Zoe")
	f.student(t, owner, "Ana")
	f.student(t, other, "Carl")
	f.link(t, parent, zoe)

	teacherView, err := f.access.VisibleStudents(ctx, owner)
	require.NoError(t, err)
	require.Len(t, teacherView, 2)
	require.Equal(t, "Ana", teacherView[0].Name)
	require.Equal(t, "Zoe", teacherView[1].Name)

	parentView, err := f.access.VisibleStudents(ctx, parent)
	require.NoError(t, err)
	require.Len(t, parentView, 1)
	require.Equal(t, zoe.ID, parentView[0].ID)

	_, err = f.access.VisibleStudents(ctx, AnonymousPrincipal())
	require.ErrorIs(t, err, ErrUnauthenticated)
}
