package models

import "gorm.io/datatypes"

// RequestStatus enumerates the lifecycle states of an attendance request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	// StatusGranted is terminal: the professor has granted attendance. The
	// record is retained for history instead of being deleted.
	StatusGranted RequestStatus = "granted"
)

// StudentSnapshot captures the submitting student at submission time. It is
// not live-linked to the User record.
type StudentSnapshot struct {
	Name      string `gorm:"not null" json:"name"`
	RollNo    string `gorm:"not null" json:"rollNo"`
	Class     string `gorm:"not null" json:"class"`
	StudentID string `gorm:"not null;index" json:"studentId"`
}

// EventDetails describes the external event the student wants to attend.
type EventDetails struct {
	EventName     string         `gorm:"not null" json:"eventName"`
	EventLocation string         `gorm:"not null" json:"eventLocation"`
	EventDate     datatypes.Date `gorm:"not null" json:"eventDate"`
	LectureTime   string         `gorm:"not null" json:"lectureTime"`
}

// ClassDetails names the lecture being missed and the approving professor.
type ClassDetails struct {
	Subject          string `gorm:"not null" json:"subject"`
	Professor        string `gorm:"not null;index" json:"professor"`
	ReasonForAbsence string `gorm:"not null" json:"reasonForAbsence"`
}

// AttendanceRequest is a student's application to be excused from a lecture.
type AttendanceRequest struct {
	BaseModel

	Student   StudentSnapshot `gorm:"embedded;embeddedPrefix:student_" json:"student"`
	Event     EventDetails    `gorm:"embedded;embeddedPrefix:event_" json:"event"`
	ClassInfo ClassDetails    `gorm:"embedded;embeddedPrefix:class_" json:"classInfo"`

	SupportingDocument string `json:"supportingDocument"`

	College    string `gorm:"not null;index:idx_requests_scope" json:"college"`
	Department string `gorm:"not null;index:idx_requests_scope" json:"department"`

	Status RequestStatus `gorm:"not null;default:'pending';index" json:"status"`
}
