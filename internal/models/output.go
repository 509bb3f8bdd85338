package models

import (
	"time"

	"github.com/lib/pq"
)

// Output is a deliverable a mentor assigns to training participants.
//
// An empty TargetParticipants list is the collective sentinel: the output is
// open to every participant of the training. A non-empty list restricts who
// may submit.
type Output struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	TrainingID         uint           `gorm:"not null;index" json:"training_id"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	Instructions       string         `gorm:"type:text" json:"instructions"`
	DueDate            time.Time      `json:"due_date"`
	TargetParticipants pq.StringArray `gorm:"type:text[]" json:"target_participants"`
	CreatedBy          uint           `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Attachments []OutputAttachment `gorm:"constraint:OnDelete:CASCADE" json:"attachments"`
	Submissions []Submission       `gorm:"constraint:OnDelete:CASCADE" json:"submissions"`
}

// OutputAttachment is a file the mentor attached to an output.
type OutputAttachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OutputID uint   `gorm:"not null;index" json:"output_id"`
	Name     string `gorm:"size:255" json:"name"`
	URL      string `gorm:"size:512" json:"url"`
	Type     string `gorm:"size:128" json:"type"`
	Position int    `gorm:"not null" json:"position"`
}

// IsCollective reports whether the output is open to the whole roster.
func (o Output) IsCollective() bool {
	return len(o.TargetParticipants) == 0
}

// Targets reports whether the given participant may submit against this output.
func (o Output) Targets(participantID string) bool {
	if o.IsCollective() {
		return true
	}
	for _, id := range o.TargetParticipants {
		if id == participantID {
			return true
		}
	}
	return false
}

// IsPastDue returns true when the deadline has already passed.
func (o Output) IsPastDue(reference time.Time) bool {
	return reference.After(o.DueDate)
}
