package models

import "time"

// Submission is one participant's work against one output.
//
// A submission row is created lazily on the first submit action; "not
// started" is the absence of the row, not a stored status. Submitted never
// reverts to false and Approved is only meaningful while Submitted is true.
type Submission struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OutputID       uint       `gorm:"not null;index:idx_output_participant,unique" json:"output_id"`
	ParticipantID  uint       `gorm:"not null;index:idx_output_participant,unique" json:"participant_id"`
	Submitted      bool       `gorm:"not null" json:"submitted"`
	Approved       bool       `gorm:"not null" json:"approved"`
	SubmissionDate *time.Time `json:"submission_date"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	EvaluatedAt    *time.Time `json:"evaluated_at"`
	EvaluatedBy    *uint      `json:"evaluated_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Output      Output                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"output"`
	Participant Participant            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"participant"`
	Attachments []SubmissionAttachment `gorm:"constraint:OnDelete:CASCADE" json:"attachments"`
	Comments    []Comment              `gorm:"constraint:OnDelete:CASCADE" json:"comments"`
}

// SubmissionAttachment is a file the participant provided with a submission.
type SubmissionAttachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Name         string    `gorm:"size:255" json:"name"`
	URL          string    `gorm:"size:512" json:"url"`
	Type         string    `gorm:"size:128" json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment is an immutable message appended to a submission thread.
// Ordering is insertion order; comments are never edited or deleted.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	AuthorID     uint      `gorm:"not null" json:"author_id"`
	Role         string    `gorm:"size:32;not null" json:"role"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	// CommentRoleParticipant marks a comment written by the submitting participant.
	CommentRoleParticipant = "participant"
	// CommentRoleMentor marks a comment written by a mentor or coordinator.
	CommentRoleMentor = "mentor"
)

// IsEvaluated reports whether a mentor has recorded a decision on the submission.
func (s Submission) IsEvaluated() bool {
	return s.EvaluatedAt != nil
}
