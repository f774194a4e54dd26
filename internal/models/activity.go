package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity actions recorded against a student's history.
const (
	ActionStudentCreated  = "student.created"
	ActionLessonCreated   = "lesson.created"
	ActionCoinsSet        = "lesson.coins_set"
	ActionHomeworkUpdated = "lesson.homework_updated"
	ActionLessonFinished  = "lesson.finished"
	ActionAwardUpdated    = "award.updated"
	ActionChildLinked     = "child.linked"
)

// ActivityLog is one entry in a student's change history. LessonID is set
// when the change touched a single lesson.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole string            `gorm:"size:32;not null" json:"actor_role"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	StudentID uint              `gorm:"not null;index:idx_activity_logs_student,priority:1" json:"student_id"`
	LessonID  *uint             `json:"lesson_id"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt time.Time         `gorm:"index:idx_activity_logs_student,priority:2" json:"created_at"`
}
