package dto

import (
	"fmt"
	"time"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// AwardUpsertRequest sets the trophy for a student and month.
type AwardUpsertRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	Year      int  `json:"year" validate:"required,min=2000,max=2100"`
	Month     int  `json:"month" validate:"required,min=1,max=12"`
	Award     int  `json:"award" validate:"required"`
}

// AwardResponse is the stored award after an upsert.
type AwardResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Award     int       `json:"award"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalendarMonth is one cell of the award window.
type CalendarMonth struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Label   string `json:"label"`
	Award   *int   `json:"award"`
	Current bool   `json:"current"`
}

// AwardCalendarResponse is the six month award window around the selected month.
type AwardCalendarResponse struct {
	Student       StudentResponse `json:"student"`
	SelectedYear  int             `json:"selected_year"`
	SelectedMonth int             `json:"selected_month"`
	Months        []CalendarMonth `json:"months"`
}

// AwardKey formats the map key used for award lookups.
func AwardKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// NewAwardResponse converts an award model.
func NewAwardResponse(award models.MonthlyAward) AwardResponse {
	return AwardResponse{
		ID:        award.ID,
		StudentID: award.StudentID,
		Year:      award.Year,
		Month:     award.Month,
		Award:     award.Award,
		UpdatedAt: award.UpdatedAt,
	}
}
