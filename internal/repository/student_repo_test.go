package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

func TestStudentRepositoryScopesByTeacherAndParent(t *testing.T) {
	db := setupTestDB(t)
	students := NewStudentRepository(db)
	links := NewParentChildRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher", true)
	other := seedUser(t, db, "other-teacher", true)
	parent := seedUser(t, db, "parent", false)

	zoe := seedStudent(t, db, "Zoe", teacher.ID)
	seedStudent(t, db, "Adam", teacher.ID)
	seedStudent(t, db, "Mia", other.ID)

	owned, err := students.ListByTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	require.Equal(t, "Adam", owned[0].Name)

	require.NoError(t, links.Create(ctx, &models.ParentChild{ParentID: parent.ID, StudentID: zoe.ID}))

	linked, err := students.ListByParent(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	require.Equal(t, zoe.ID, linked[0].ID)

	exists, err := links.Exists(ctx, parent.ID, zoe.ID)
	require.NoError(t, err)
	require.True(t, exists)

	all, err := links.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "parent", all[0].Parent.Username)
	require.Equal(t, "Zoe", all[0].Student.Name)
}

func TestStudentRepositoryDuplicateNameIsTranslated(t *testing.T) {
	db := setupTestDB(t)
	students := NewStudentRepository(db)
	teacher := seedUser(t, db, "teacher", true)
	ctx := context.Background()

	require.NoError(t, students.Create(ctx, &models.Student{Name: "Anna", TeacherID: &teacher.ID}))
	err := students.Create(ctx, &models.Student{Name: "Anna", TeacherID: &teacher.ID})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestParentChildRepositoryDuplicateLinkIsTranslated(t *testing.T) {
	db := setupTestDB(t)
	links := NewParentChildRepository(db)
	teacher := seedUser(t, db, "teacher", true)
	parent := seedUser(t, db, "parent", false)
	student := seedStudent(t, db, "Anna", teacher.ID)
	ctx := context.Background()

	require.NoError(t, links.Create(ctx, &models.ParentChild{ParentID: parent.ID, StudentID: student.ID}))
	err := links.Create(ctx, &models.ParentChild{ParentID: parent.ID, StudentID: student.ID})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepositoryRejectsBothRoleFlags(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)

	err := users.Create(context.Background(), &models.User{Username: "both", PasswordHash: "x", IsTeacher: true, IsParent: true})
	require.Error(t, err)

	_, err = users.GetByUsername(context.Background(), "both")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
