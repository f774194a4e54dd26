package models

import "time"

// Role names carried in tokens and activity logs.
const (
	RoleTeacher   = "teacher"
	RoleParent    = "parent"
	RoleAnonymous = "anonymous"
)

// User is an account that can sign in. Exactly one of IsTeacher or IsParent is set.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsTeacher    bool      `gorm:"not null;default:false" json:"is_teacher"`
	IsParent     bool      `gorm:"not null;default:false" json:"is_parent"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role derives the role name from the account flags.
func (u User) Role() string {
	switch {
	case u.IsTeacher:
		return RoleTeacher
	case u.IsParent:
		return RoleParent
	default:
		return RoleAnonymous
	}
}
