package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/tutorbook-api/internal/dto"
)

const (
	windowMonthsBefore = 3
	windowMonthsAfter  = 2
)

// AwardWindow lays out the six months from three before to two after the
// selected month, filling in stored awards and flagging the month containing now.
func AwardWindow(year, month int, awards map[string]int, now time.Time) []dto.CalendarMonth {
	anchor := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	months := make([]dto.CalendarMonth, 0, windowMonthsBefore+windowMonthsAfter+1)

	for offset := -windowMonthsBefore; offset <= windowMonthsAfter; offset++ {
		cell := anchor.AddDate(0, offset, 0)
		y, m := cell.Year(), int(cell.Month())

		entry := dto.CalendarMonth{
			Year:    y,
			Month:   m,
			Label:   fmt.Sprintf("%s %d", cell.Month().String(), y),
			Current: y == now.Year() && m == int(now.Month()),
		}
		if value, ok := awards[dto.AwardKey(y, m)]; ok {
			award := value
			entry.Award = &award
		}
		months = append(months, entry)
	}

	return months
}
