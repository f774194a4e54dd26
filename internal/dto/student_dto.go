package dto

import (
	"time"

	"github.com/noah-isme/tutorbook-api/internal/models"
)

// StudentCreateRequest captures the fields a teacher supplies for a new student.
type StudentCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Level     string `json:"level" validate:"omitempty,max=64"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Goal      string `json:"goal" validate:"omitempty,max=2000"`
}

// StudentResponse is the public view of a student.
type StudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	StartDate string    `json:"start_date"`
	Goal      string    `json:"goal"`
	TeacherID *uint     `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HomeResponse lists the students visible to the signed-in user.
type HomeResponse struct {
	Role     string            `json:"role"`
	Students []StudentResponse `json:"students"`
}

// ScorecardResponse is the student page: the eight scorecard lessons and the award map.
type ScorecardResponse struct {
	Student StudentResponse  `json:"student"`
	Lessons []LessonResponse `json:"lessons"`
	Awards  map[string]int   `json:"awards"`
}

// NewStudentResponse converts a model into its response form.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:        student.ID,
		Name:      student.Name,
		Level:     student.Level,
		StartDate: student.StartDate,
		Goal:      student.Goal,
		TeacherID: student.TeacherID,
		CreatedAt: student.CreatedAt,
	}
}

// NewStudentResponses converts a slice of models.
func NewStudentResponses(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
