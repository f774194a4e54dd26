package models

import "time"

// MonthlyAward is the trophy a student earned for a calendar month.
// One row per (student, year, month).
type MonthlyAward struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_monthly_awards_key" json:"student_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_monthly_awards_key" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_monthly_awards_key" json:"month"`
	Award     int       `gorm:"not null" json:"award"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
