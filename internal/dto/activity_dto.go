package dto

import (
	"time"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// ActivityListRequest narrows the change history returned to the caller.
// Without StudentID the history covers every student the caller can see.
type ActivityListRequest struct {
	Page      int
	PageSize  int
	StudentID *uint
	LessonID  *uint
	Action    string
}

// ActivityResponse is one change history entry.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	ActorRole string                 `json:"actor_role"`
	Action    string                 `json:"action"`
	StudentID uint                   `json:"student_id"`
	LessonID  *uint                  `json:"lesson_id,omitempty"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a page of history entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse converts a model into an activity DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	details := make(map[string]interface{}, len(entry.Details))
	for key, value := range entry.Details {
		details[key] = value
	}
	return ActivityResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		ActorRole: entry.ActorRole,
		Action:    entry.Action,
		StudentID: entry.StudentID,
		LessonID:  entry.LessonID,
		Details:   details,
		CreatedAt: entry.CreatedAt,
	}
}
