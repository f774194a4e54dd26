package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// AwardRepository persists monthly awards.
type AwardRepository interface {
	Upsert(ctx context.Context, award *models.MonthlyAward) error
	Get(ctx context.Context, studentID uint, year, month int) (models.MonthlyAward, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.MonthlyAward, error)
}

type awardRepository struct {
	db *gorm.DB
}

// NewAwardRepository constructs a gorm-backed award repository.
func NewAwardRepository(db *gorm.DB) AwardRepository {
	return &awardRepository{db: db}
}

// Upsert writes the award for (student, year, month), replacing any earlier value.
func (r *awardRepository) Upsert(ctx context.Context, award *models.MonthlyAward) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"award", "updated_at"}),
	}).Create(award).Error
}

func (r *awardRepository) Get(ctx context.Context, studentID uint, year, month int) (models.MonthlyAward, error) {
	var award models.MonthlyAward
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND year = ? AND month = ?", studentID, year, month).
		First(&award).Error
	return award, err
}

func (r *awardRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.MonthlyAward, error) {
	var awards []models.MonthlyAward
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("year ASC").
		Order("month ASC").
		Find(&awards).Error
	return awards, err
}
