package models

import "time"

// Participant is a person enrolled in a training.
type Participant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrainingID uint      `gorm:"not null;index" json:"training_id"`
	Name       string    `gorm:"size:255" json:"name"`
	Email      string    `gorm:"size:255" json:"email"`
	Cohort     string    `gorm:"size:64" json:"cohort"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName falls back to a placeholder when the profile is incomplete.
func (p Participant) DisplayName() string {
	if p.Name == "" {
		return "Unknown"
	}
	return p.Name
}

// DisplayEmail falls back to a placeholder when the profile is incomplete.
func (p Participant) DisplayEmail() string {
	if p.Email == "" {
		return "N/A"
	}
	return p.Email
}
