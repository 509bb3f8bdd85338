package models

import "time"

// Session is a scheduled meeting within a training, optionally scoped to a cohort.
type Session struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrainingID uint      `gorm:"not null;index" json:"training_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Cohort     string    `gorm:"size:64" json:"cohort"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Attendance []AttendanceRecord `gorm:"constraint:OnDelete:CASCADE" json:"attendance,omitempty"`
}

// AttendanceRecord marks one participant's presence at one session.
type AttendanceRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     uint      `gorm:"not null;index:idx_session_participant,unique" json:"session_id"`
	ParticipantID uint      `gorm:"not null;index:idx_session_participant,unique" json:"participant_id"`
	Present       bool      `gorm:"not null" json:"present"`
	RecordedBy    uint      `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
