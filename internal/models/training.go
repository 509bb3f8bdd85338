package models

import (
	"time"

	"github.com/lib/pq"
)

// Training is the umbrella entity outputs and sessions belong to.
type Training struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        string         `gorm:"size:32;not null" json:"type"`
	Status      string         `gorm:"size:32;not null;index" json:"status"`
	RegionID    string         `gorm:"size:64;index" json:"region_id"`
	Cohorts     pq.StringArray `gorm:"type:text[]" json:"cohorts"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Participants []Participant `json:"participants,omitempty"`
	Sessions     []Session     `json:"sessions,omitempty"`
	Outputs      []Output      `json:"outputs,omitempty"`
}

const (
	// TrainingTypeFormation is a classroom-style training program.
	TrainingTypeFormation = "formation"
	// TrainingTypeBootcamp is an intensive short-format program.
	TrainingTypeBootcamp = "bootcamp"
	// TrainingTypeMentoring is a long-running mentorship program.
	TrainingTypeMentoring = "mentoring"
)

const (
	// TrainingStatusApproved marks a training visible to coordinators.
	TrainingStatusApproved = "approved"
	// TrainingStatusDraft marks a training still being prepared.
	TrainingStatusDraft = "draft"
	// TrainingStatusArchived marks a training removed from active listings.
	TrainingStatusArchived = "archived"
)

// Phase buckets a training relative to the reference time.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhasePast     Phase = "past"
)

// PhaseAt classifies the training as upcoming, active or past.
func (t Training) PhaseAt(reference time.Time) Phase {
	switch {
	case t.StartDate.After(reference):
		return PhaseUpcoming
	case t.EndDate.Before(reference):
		return PhasePast
	default:
		return PhaseActive
	}
}
