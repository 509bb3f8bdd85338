package dto

import (
	"time"

	"github.com/formahub/formahub-api/internal/models"
)

// TrainingListRequest defines filters for listing approved trainings.
type TrainingListRequest struct {
	Type     string   `query:"type" validate:"omitempty,oneof=formation bootcamp mentoring"`
	Cohorts  []string `query:"cohorts"`
	Search   string   `query:"search"`
	Status   string   `query:"status" validate:"omitempty,oneof=approved draft archived"`
	RegionID string   `query:"region_id"`
	Page     int      `query:"page" validate:"omitempty,min=1"`
	Limit    int      `query:"limit" validate:"omitempty,min=1,max=100"`
}

// TrainingResponse serializes a training for listings.
type TrainingResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	RegionID    string    `json:"region_id"`
	Cohorts     []string  `json:"cohorts"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Phase       string    `json:"phase"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApprovedTrainingsResponse buckets trainings relative to the request time.
type ApprovedTrainingsResponse struct {
	Upcoming   []TrainingResponse `json:"upcoming"`
	Active     []TrainingResponse `json:"active"`
	Past       []TrainingResponse `json:"past"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewTrainingResponse converts a training model into a DTO.
func NewTrainingResponse(model models.Training, now time.Time) TrainingResponse {
	cohorts := []string(model.Cohorts)
	if cohorts == nil {
		cohorts = []string{}
	}

	return TrainingResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Type:        model.Type,
		Status:      model.Status,
		RegionID:    model.RegionID,
		Cohorts:     cohorts,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		Phase:       string(model.PhaseAt(now)),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ParticipantResponse serializes a participant, defaulting incomplete profiles.
type ParticipantResponse struct {
	ID         uint   `json:"id"`
	TrainingID uint   `json:"training_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Cohort     string `json:"cohort"`
}

// NewParticipantResponse converts a participant model into a DTO.
func NewParticipantResponse(model models.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         model.ID,
		TrainingID: model.TrainingID,
		Name:       model.DisplayName(),
		Email:      model.DisplayEmail(),
		Cohort:     model.Cohort,
	}
}

// NewParticipantResponseSlice converts participant models into DTOs.
func NewParticipantResponseSlice(participants []models.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(participants))
	for _, participant := range participants {
		out = append(out, NewParticipantResponse(participant))
	}
	return out
}
