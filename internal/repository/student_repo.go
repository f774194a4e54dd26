package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// StudentRepository provides persistence operations for students.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Student, error)
	ListByParent(ctx context.Context, parentID uint) ([]models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a gorm-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, id).Error
	return student, err
}

func (r *studentRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepository) ListByParent(ctx context.Context, parentID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN parent_child ON parent_child.student_id = students.id").
		Where("parent_child.parent_id = ?", parentID).
		Order("students.name ASC").
		Find(&students).Error
	return students, err
}
