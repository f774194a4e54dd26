package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// ActivityHistoryFilter selects entries from the history of a set of students.
// An empty StudentIDs slice matches nothing.
type ActivityHistoryFilter struct {
	StudentIDs []uint
	LessonID   *uint
	Action     string
	Page       int
	PageSize   int
}

// ActivityLogRepository persists student change history.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	History(ctx context.Context, filter ActivityHistoryFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) History(ctx context.Context, filter ActivityHistoryFilter) ([]models.ActivityLog, int64, error) {
	if len(filter.StudentIDs) == 0 {
		return []models.ActivityLog{}, 0, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("student_id IN ?", filter.StudentIDs)
	if filter.LessonID != nil {
		query = query.Where("lesson_id = ?", *filter.LessonID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	// Entries written in the same second keep insertion order through the id.
	var entries []models.ActivityLog
	err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error
	return entries, total, err
}
