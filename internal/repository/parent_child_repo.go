package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// ParentChildRepository persists parent to student links.
type ParentChildRepository interface {
	Create(ctx context.Context, link *models.ParentChild) error
	Exists(ctx context.Context, parentID, studentID uint) (bool, error)
	ListAll(ctx context.Context) ([]models.ParentChild, error)
}

type parentChildRepository struct {
	db *gorm.DB
}

// NewParentChildRepository constructs a gorm-backed link repository.
func NewParentChildRepository(db *gorm.DB) ParentChildRepository {
	return &parentChildRepository{db: db}
}

func (r *parentChildRepository) Create(ctx context.Context, link *models.ParentChild) error {
	return r.db.WithContext(ctx).Omit("Parent", "Student").Create(link).Error
}

func (r *parentChildRepository) Exists(ctx context.Context, parentID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ParentChild{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *parentChildRepository) ListAll(ctx context.Context) ([]models.ParentChild, error) {
	var links []models.ParentChild
	err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Student").
		Order("id ASC").
		Find(&links).Error
	return links, err
}
