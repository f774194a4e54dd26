package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// TableCounts reports row counts per domain table.
type TableCounts struct {
	Users         int64 `json:"users"`
	Students      int64 `json:"students"`
	Lessons       int64 `json:"lessons"`
	LessonItems   int64 `json:"lesson_items"`
	MonthlyAwards int64 `json:"monthly_awards"`
	ParentLinks   int64 `json:"parent_child"`
	ActivityLogs  int64 `json:"activity_logs"`
}

// DiagnosticsRepository exposes read-only store statistics.
type DiagnosticsRepository interface {
	Counts(ctx context.Context) (TableCounts, error)
}

type diagnosticsRepository struct {
	db *gorm.DB
}

// NewDiagnosticsRepository constructs the diagnostics repository.
func NewDiagnosticsRepository(db *gorm.DB) DiagnosticsRepository {
	return &diagnosticsRepository{db: db}
}

func (r *diagnosticsRepository) Counts(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	targets := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &counts.Users},
		{&models.Student{}, &counts.Students},
		{&models.Lesson{}, &counts.Lessons},
		{&models.LessonItem{}, &counts.LessonItems},
		{&models.MonthlyAward{}, &counts.MonthlyAwards},
		{&models.ParentChild{}, &counts.ParentLinks},
		{&models.ActivityLog{}, &counts.ActivityLogs},
	}

	db := r.db.WithContext(ctx)
	for _, target := range targets {
		if err := db.Model(target.model).Count(target.dest).Error; err != nil {
			return TableCounts{}, err
		}
	}

	return counts, nil
}
