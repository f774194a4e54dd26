package dto

import (
	"time"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// SetCoinsRequest carries the new coin count for one coin type.
type SetCoinsRequest struct {
	Value *int `json:"value" validate:"required,min=0,max=5"`
}

// UpdateHomeworkRequest replaces the homework text of a lesson.
type UpdateHomeworkRequest struct {
	Homework string `json:"homework" validate:"max=2000"`
}

// LessonCreateRequest adds a scored lesson.
type LessonCreateRequest struct {
	Topic    string  `json:"topic" validate:"required,max=255"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	MaxScore float64 `json:"max_score" validate:"omitempty,gt=0"`
}

// LessonItemCreateRequest adds a scored item to an open lesson.
type LessonItemCreateRequest struct {
	ItemName    string   `json:"item_name" validate:"required,max=255"`
	ScoreEarned *float64 `json:"score_earned" validate:"required,gte=0"`
	MaxScore    float64  `json:"max_score" validate:"omitempty,gt=0"`
	Notes       string   `json:"notes" validate:"max=2000"`
}

// FinishLessonRequest closes a lesson and records its homework.
type FinishLessonRequest struct {
	Homework string `json:"homework" validate:"max=2000"`
}

// LessonItemResponse is the public view of a lesson item.
type LessonItemResponse struct {
	ID          uint      `json:"id"`
	ItemName    string    `json:"item_name"`
	ScoreEarned float64   `json:"score_earned"`
	MaxScore    float64   `json:"max_score"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// LessonResponse is the public view of a lesson.
type LessonResponse struct {
	ID            uint                 `json:"id"`
	StudentID     uint                 `json:"student_id"`
	Date          string               `json:"date"`
	Kind          string               `json:"kind"`
	Sequence      *int                 `json:"sequence,omitempty"`
	Topic         string               `json:"topic"`
	Understanding int                  `json:"understanding"`
	Participation int                  `json:"participation"`
	HomeworkCoins int                  `json:"homework_coins"`
	Homework      string               `json:"homework"`
	MaxScore      float64              `json:"max_score"`
	IsFinished    bool                 `json:"is_finished"`
	TotalEarned   float64              `json:"total_earned"`
	TotalMax      float64              `json:"total_max"`
	Percentage    float64              `json:"percentage"`
	Comment       string               `json:"comment"`
	FinishedAt    *time.Time           `json:"finished_at"`
	Items         []LessonItemResponse `json:"items,omitempty"`
}

// LessonDetailResponse pairs a lesson with its student.
type LessonDetailResponse struct {
	Student StudentResponse `json:"student"`
	Lesson  LessonResponse  `json:"lesson"`
}

// NewLessonItemResponse converts an item model.
func NewLessonItemResponse(item models.LessonItem) LessonItemResponse {
	return LessonItemResponse{
		ID:          item.ID,
		ItemName:    item.ItemName,
		ScoreEarned: item.ScoreEarned,
		MaxScore:    item.MaxScore,
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
	}
}

// NewLessonResponse converts a lesson model including any loaded items.
func NewLessonResponse(lesson models.Lesson) LessonResponse {
	response := LessonResponse{
		ID:            lesson.ID,
		StudentID:     lesson.StudentID,
		Date:          lesson.Date,
		Kind:          lesson.Kind,
		Sequence:      lesson.Sequence,
		Topic:         lesson.Topic,
		Understanding: lesson.Understanding,
		Participation: lesson.Participation,
		HomeworkCoins: lesson.HomeworkCoins,
		Homework:      lesson.Homework,
		MaxScore:      lesson.MaxScore,
		IsFinished:    lesson.IsFinished,
		TotalEarned:   lesson.TotalEarned,
		TotalMax:      lesson.TotalMax,
		Percentage:    lesson.Percentage,
		Comment:       lesson.Comment,
		FinishedAt:    lesson.FinishedAt,
	}
	if len(lesson.Items) > 0 {
		response.Items = make([]LessonItemResponse, 0, len(lesson.Items))
		for _, item := range lesson.Items {
			response.Items = append(response.Items, NewLessonItemResponse(item))
		}
	}
	return response
}

// NewLessonResponses converts a slice of lesson models.
func NewLessonResponses(lessons []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		responses = append(responses, NewLessonResponse(lesson))
	}
	return responses
}
