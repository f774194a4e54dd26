package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/testutil/testdb"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string, teacher bool) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "hash", IsTeacher: teacher, IsParent: !teacher}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedStudent(t *testing.T, db *gorm.DB, name string, teacherID uint) models.Student {
	t.Helper()
	student := models.Student{Name: name, TeacherID: &teacherID}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func intPtr(v int) *int {
	return &v
}
