package dto

import "time"

// LinkChildRequest links a parent account to a student. Either the parent id or
// the username identifies the parent.
type LinkChildRequest struct {
	ParentID       uint   `json:"parent_id" validate:"required_without=ParentUsername"`
	ParentUsername string `json:"parent_username" validate:"required_without=ParentID,max=64"`
	StudentID      uint   `json:"student_id" validate:"required"`
}

// ParentChildResponse describes a parent to student link.
type ParentChildResponse struct {
	ID             uint      `json:"id"`
	ParentID       uint      `json:"parent_id"`
	ParentUsername string    `json:"parent_username"`
	StudentID      uint      `json:"student_id"`
	StudentName    string    `json:"student_name"`
	CreatedAt      time.Time `json:"created_at"`
}
