package models

import "time"

// ParentChild links a parent account to a student it may view.
type ParentChild struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  uint      `gorm:"not null;uniqueIndex:idx_parent_child_pair" json:"parent_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_parent_child_pair" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
	Parent    User      `gorm:"foreignKey:ParentID" json:"-"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"-"`
}

// TableName keeps the historical singular table name.
func (ParentChild) TableName() string {
	return "parent_child"
}
