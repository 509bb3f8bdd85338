package dto

import (
	"time"

	"github.com/formahub/formahub-api/internal/models"
)

// SubmitRequest describes the multipart payload for a participant submit action.
// Files arrive alongside as multipart attachments.
type SubmitRequest struct {
	ParticipantID uint `form:"participant_id" validate:"required,gt=0"`
}

// EvaluationRequest is a mentor's approve/reject decision on a submission.
type EvaluationRequest struct {
	Feedback string `json:"feedback" validate:"omitempty,max=4000"`
	Approved bool   `json:"approved"`
}

// CommentCreateRequest appends a comment to a submission thread.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4000"`
}

// CommentResponse serializes a submission comment.
type CommentResponse struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// OutputLite summarizes an output in submission responses.
type OutputLite struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID             uint                 `json:"id"`
	OutputID       uint                 `json:"output_id"`
	ParticipantID  uint                 `json:"participant_id"`
	State          string               `json:"state"`
	Submitted      bool                 `json:"submitted"`
	Approved       bool                 `json:"approved"`
	SubmissionDate *time.Time           `json:"submission_date"`
	Feedback       string               `json:"feedback"`
	EvaluatedAt    *time.Time           `json:"evaluated_at"`
	EvaluatedBy    *uint                `json:"evaluated_by"`
	Attachments    []AttachmentResponse `json:"attachments"`
	Comments       []CommentResponse    `json:"comments"`
	Output         OutputLite           `json:"output"`
	Participant    ParticipantResponse  `json:"participant"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NewCommentResponse converts a comment model into a DTO.
func NewCommentResponse(model models.Comment) CommentResponse {
	return CommentResponse{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		Role:      model.Role,
		Text:      model.Text,
		CreatedAt: model.CreatedAt,
	}
}

// NewSubmissionResponse converts a submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	attachments := make([]AttachmentResponse, 0, len(model.Attachments))
	for _, attachment := range model.Attachments {
		attachments = append(attachments, AttachmentResponse{
			Name: attachment.Name,
			URL:  attachment.URL,
			Type: attachment.Type,
		})
	}

	comments := make([]CommentResponse, 0, len(model.Comments))
	for _, comment := range model.Comments {
		comments = append(comments, NewCommentResponse(comment))
	}

	response := SubmissionResponse{
		ID:             model.ID,
		OutputID:       model.OutputID,
		ParticipantID:  model.ParticipantID,
		State:          string(model.State()),
		Submitted:      model.Submitted,
		Approved:       model.Approved,
		SubmissionDate: model.SubmissionDate,
		Feedback:       model.Feedback,
		EvaluatedAt:    model.EvaluatedAt,
		EvaluatedBy:    model.EvaluatedBy,
		Attachments:    attachments,
		Comments:       comments,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.Output.ID != 0 {
		response.Output = OutputLite{
			ID:      model.Output.ID,
			Title:   model.Output.Title,
			DueDate: model.Output.DueDate,
		}
	}

	if model.Participant.ID != 0 {
		response.Participant = NewParticipantResponse(model.Participant)
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		out = append(out, NewSubmissionResponse(submission))
	}
	return out
}
