package dto

import (
	"time"

	"github.com/formahub/formahub-api/internal/models"
)

// AttachmentPayload describes one attachment reference in a create request.
type AttachmentPayload struct {
	Name string `json:"name" validate:"required,max=255"`
	URL  string `json:"url" validate:"required,url,max=512"`
	Type string `json:"type" validate:"omitempty,max=128"`
}

// OutputCreateRequest is the payload for creating an output on a training.
type OutputCreateRequest struct {
	Title              string              `json:"title" validate:"required,min=3,max=255"`
	Description        string              `json:"description" validate:"omitempty,max=4000"`
	Instructions       string              `json:"instructions" validate:"omitempty,max=8000"`
	DueDate            string              `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TargetParticipants []string            `json:"target_participants" validate:"omitempty,dive,required"`
	Attachments        []AttachmentPayload `json:"attachments" validate:"omitempty,dive"`
}

// OutputListRequest captures query filters for an output listing.
type OutputListRequest struct {
	Search    string `query:"search"`
	Status    string `query:"status" validate:"omitempty,oneof=all overdue pending completed"`
	Sort      string `query:"sort" validate:"omitempty,oneof=title created_at due_date"`
	Direction string `query:"direction" validate:"omitempty,oneof=asc desc"`
}

// AttachmentResponse serializes an attachment reference.
type AttachmentResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// OutputStatsResponse serializes derived submission counters.
type OutputStatsResponse struct {
	SubmittedCount int     `json:"submitted_count"`
	ApprovedCount  int     `json:"approved_count"`
	PendingCount   int     `json:"pending_count"`
	ExpectedTotal  int     `json:"expected_total"`
	CompletionRate float64 `json:"completion_rate"`
}

// OutputResponse is returned to API clients when viewing outputs.
type OutputResponse struct {
	ID                 uint                 `json:"id"`
	TrainingID         uint                 `json:"training_id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Instructions       string               `json:"instructions"`
	DueDate            time.Time            `json:"due_date"`
	Urgency            string               `json:"urgency"`
	DaysUntilDue       int                  `json:"days_until_due"`
	Collective         bool                 `json:"collective"`
	TargetParticipants []string             `json:"target_participants"`
	CreatedBy          uint                 `json:"created_by"`
	CreatedAt          time.Time            `json:"created_at"`
	Attachments        []AttachmentResponse `json:"attachments"`
	Submissions        []SubmissionResponse `json:"submissions"`
	Stats              OutputStatsResponse  `json:"stats"`
}

// NewOutputStatsResponse converts computed stats into a DTO.
func NewOutputStatsResponse(stats models.OutputStats) OutputStatsResponse {
	return OutputStatsResponse{
		SubmittedCount: stats.SubmittedCount,
		ApprovedCount:  stats.ApprovedCount,
		PendingCount:   stats.PendingCount,
		ExpectedTotal:  stats.ExpectedTotal,
		CompletionRate: stats.CompletionRate,
	}
}

// NewOutputResponse converts an output model into a DTO with derived fields.
func NewOutputResponse(model models.Output, now time.Time) OutputResponse {
	urgency, days := models.DueDateUrgency(model.DueDate, now)

	targets := []string(model.TargetParticipants)
	if targets == nil {
		targets = []string{}
	}

	attachments := make([]AttachmentResponse, 0, len(model.Attachments))
	for _, attachment := range model.Attachments {
		attachments = append(attachments, AttachmentResponse{
			Name: attachment.Name,
			URL:  attachment.URL,
			Type: attachment.Type,
		})
	}

	return OutputResponse{
		ID:                 model.ID,
		TrainingID:         model.TrainingID,
		Title:              model.Title,
		Description:        model.Description,
		Instructions:       model.Instructions,
		DueDate:            model.DueDate,
		Urgency:            string(urgency),
		DaysUntilDue:       days,
		Collective:         model.IsCollective(),
		TargetParticipants: targets,
		CreatedBy:          model.CreatedBy,
		CreatedAt:          model.CreatedAt,
		Attachments:        attachments,
		Submissions:        NewSubmissionResponseSlice(model.Submissions),
		Stats:              NewOutputStatsResponse(models.ComputeOutputStats(model)),
	}
}

// NewOutputResponseSlice converts output models into DTOs.
func NewOutputResponseSlice(outputs []models.Output, now time.Time) []OutputResponse {
	out := make([]OutputResponse, 0, len(outputs))
	for _, output := range outputs {
		out = append(out, NewOutputResponse(output, now))
	}
	return out
}
