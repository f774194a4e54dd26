package models

import "time"

// DateLayout is the calendar date format used for lesson and start dates.
const DateLayout = "2006-01-02"

// Student is a learner tracked by a teacher.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_students_teacher_name" json:"name"`
	Level     string    `gorm:"size:64" json:"level"`
	StartDate string    `gorm:"size:10" json:"start_date"`
	Goal      string    `gorm:"type:text" json:"goal"`
	TeacherID *uint     `gorm:"uniqueIndex:idx_students_teacher_name" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the student belongs to the given teacher.
func (s Student) OwnedBy(teacherID uint) bool {
	return s.TeacherID != nil && *s.TeacherID == teacherID
}
