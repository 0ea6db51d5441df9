package models

import "time"

// Role identifies the three account kinds supported by the portal.
type Role string

const (
	RoleHOD       Role = "hod"
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleHOD, RoleStudent, RoleProfessor:
		return true
	}
	return false
}

// User describes a portal account. Role-specific fields are populated only for
// the matching role; college and department are copied from the resolved
// class when a student or professor joins.
type User struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"not null;index" json:"role"`

	College    string `gorm:"not null;index:idx_users_scope" json:"college"`
	Department string `gorm:"not null;index:idx_users_scope" json:"department"`

	ContactNumber  string `json:"contactNumber"`
	Gender         string `gorm:"default:'Prefer not to say'" json:"gender"`
	ProfilePicture string `json:"profilePicture"`

	// Student fields. StudentID is the college-issued identifier, distinct
	// from the record's primary key.
	RollNo      string `json:"rollNo,omitempty"`
	StudentID   string `gorm:"index" json:"userId,omitempty"`
	Division    string `json:"division,omitempty"`
	StudentCode string `json:"studentCode,omitempty"`

	// Professor field; for an HOD both code fields hold the codes it issues.
	ProfessorCode string `json:"professorCode,omitempty"`

	IsVerified       bool      `gorm:"default:false" json:"isVerified"`
	VerifyCode       string    `json:"-"`
	VerifyCodeExpiry time.Time `json:"-"`
}
