package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// CoinColumn names a lesson column that holds a coin count. Only the declared
// constants are accepted by the repository.
type CoinColumn string

const (
	CoinColumnUnderstanding CoinColumn = "understanding"
	CoinColumnParticipation CoinColumn = "participation"
	CoinColumnHomework      CoinColumn = "homework_coins"
)

// ErrUnknownCoinColumn is returned when a coin column outside the closed set is requested.
var ErrUnknownCoinColumn = errors.New("unknown coin column")

// LessonResult carries the computed score written when a lesson is finished.
type LessonResult struct {
	TotalEarned float64
	TotalMax    float64
	Percentage  float64
	Comment     string
	Homework    string
	FinishedAt  time.Time
}

// LessonRepository persists lessons and their items.
type LessonRepository interface {
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	GetWithItems(ctx context.Context, id uint) (models.Lesson, error)
	ScorecardSequences(ctx context.Context, studentID uint) ([]int, error)
	CreateScorecard(ctx context.Context, lessons []models.Lesson) (int64, error)
	ListScorecard(ctx context.Context, studentID uint, limit int) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	ListScored(ctx context.Context, studentID uint) ([]models.Lesson, error)
	SetCoins(ctx context.Context, id uint, column CoinColumn, value int) error
	UpdateHomework(ctx context.Context, id uint, homework string) error
	AddItem(ctx context.Context, item *models.LessonItem) error
	ListItems(ctx context.Context, lessonID uint) ([]models.LessonItem, error)
	MarkFinished(ctx context.Context, id uint, result LessonResult) (bool, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository constructs a gorm-backed lesson repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, id).Error
	return lesson, err
}

func (r *lessonRepository) GetWithItems(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&lesson, id).Error
	return lesson, err
}

func (r *lessonRepository) ScorecardSequences(ctx context.Context, studentID uint) ([]int, error) {
	var sequences []int
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("student_id = ? AND kind = ? AND sequence IS NOT NULL", studentID, models.LessonKindScorecard).
		Order("sequence ASC").
		Pluck("sequence", &sequences).Error
	return sequences, err
}

// CreateScorecard inserts the placeholder lessons in one transaction. Rows whose
// (student_id, sequence) already exist are skipped, so concurrent callers cannot
// create duplicates.
func (r *lessonRepository) CreateScorecard(ctx context.Context, lessons []models.Lesson) (int64, error) {
	if len(lessons) == 0 {
		return 0, nil
	}

	var created int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range lessons {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "sequence"}},
				DoNothing: true,
			}).Create(&lessons[i])
			if result.Error != nil {
				return result.Error
			}
			created += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

func (r *lessonRepository) ListScorecard(ctx context.Context, studentID uint, limit int) ([]models.Lesson, error) {
	var lessons []models.Lesson
	query := r.db.WithContext(ctx).
		Where("student_id = ? AND kind = ?", studentID, models.LessonKindScorecard).
		Order("sequence ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) ListScored(ctx context.Context, studentID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND kind = ?", studentID, models.LessonKindScored).
		Order("date DESC").
		Order("id DESC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) SetCoins(ctx context.Context, id uint, column CoinColumn, value int) error {
	switch column {
	case CoinColumnUnderstanding, CoinColumnParticipation, CoinColumnHomework:
	default:
		return ErrUnknownCoinColumn
	}

	result := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ?", id).
		Update(string(column), value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lessonRepository) UpdateHomework(ctx context.Context, id uint, homework string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ?", id).
		Update("homework", homework)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lessonRepository) AddItem(ctx context.Context, item *models.LessonItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *lessonRepository) ListItems(ctx context.Context, lessonID uint) ([]models.LessonItem, error) {
	var items []models.LessonItem
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// MarkFinished writes the result only while the lesson is still open. It
// reports false when another request finished the lesson first.
func (r *lessonRepository) MarkFinished(ctx context.Context, id uint, result LessonResult) (bool, error) {
	finishedAt := result.FinishedAt
	update := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ? AND is_finished = ?", id, false).
		Updates(map[string]interface{}{
			"is_finished":  true,
			"total_earned": result.TotalEarned,
			"total_max":    result.TotalMax,
			"percentage":   result.Percentage,
			"comment":      result.Comment,
			"homework":     result.Homework,
			"finished_at":  &finishedAt,
		})
	if update.Error != nil {
		return false, update.Error
	}
	return update.RowsAffected == 1, nil
}
