package dto

import (
	"time"

	"github.com/formahub/formahub-api/internal/models"
)

// SessionResponse serializes a training session with its attendance marks.
type SessionResponse struct {
	ID         uint                 `json:"id"`
	TrainingID uint                 `json:"training_id"`
	Title      string               `json:"title"`
	Cohort     string               `json:"cohort"`
	StartsAt   time.Time            `json:"starts_at"`
	EndsAt     time.Time            `json:"ends_at"`
	Attendance []AttendanceResponse `json:"attendance"`
}

// AttendanceResponse serializes one attendance record.
type AttendanceResponse struct {
	SessionID     uint `json:"session_id"`
	ParticipantID uint `json:"participant_id"`
	Present       bool `json:"present"`
}

// TrainingStatsResponse serializes aggregated output progress.
type TrainingStatsResponse struct {
	TotalOutputs  int `json:"total_outputs"`
	Overdue       int `json:"overdue"`
	PendingReview int `json:"pending_review"`
	Completed     int `json:"completed"`
}

// TrackingOutputsResponse splits the outputs of a training into the
// collective and individually-targeted groups.
type TrackingOutputsResponse struct {
	TrainingOutputs    []OutputResponse `json:"trainingOutputs"`
	ParticipantOutputs []OutputResponse `json:"participantOutputs"`
}

// TrainingTrackingResponse is the aggregated payload for one training.
type TrainingTrackingResponse struct {
	Training     TrainingResponse        `json:"training"`
	Participants []ParticipantResponse   `json:"participants"`
	Sessions     []SessionResponse       `json:"sessions"`
	Outputs      TrackingOutputsResponse `json:"outputs"`
	Attendance   []AttendanceResponse    `json:"attendance"`
	Stats        TrainingStatsResponse   `json:"stats"`
}

// RegionAttendanceResponse summarizes attendance across a region.
type RegionAttendanceResponse struct {
	Participants int                  `json:"participants"`
	Trainings    int                  `json:"trainings"`
	Attendance   RegionAttendanceData `json:"attendance"`
}

// RegionAttendanceData carries the raw presence counters of a region.
type RegionAttendanceData struct {
	Recorded int     `json:"recorded"`
	Present  int     `json:"present"`
	Absent   int     `json:"absent"`
	Rate     float64 `json:"rate"`
}

// NewSessionResponse converts a session model into a DTO.
func NewSessionResponse(model models.Session) SessionResponse {
	attendance := make([]AttendanceResponse, 0, len(model.Attendance))
	for _, record := range model.Attendance {
		attendance = append(attendance, NewAttendanceResponse(record))
	}

	return SessionResponse{
		ID:         model.ID,
		TrainingID: model.TrainingID,
		Title:      model.Title,
		Cohort:     model.Cohort,
		StartsAt:   model.StartsAt,
		EndsAt:     model.EndsAt,
		Attendance: attendance,
	}
}

// NewSessionResponseSlice converts session models into DTOs.
func NewSessionResponseSlice(sessions []models.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, NewSessionResponse(session))
	}
	return out
}

// NewAttendanceResponse converts an attendance record into a DTO.
func NewAttendanceResponse(model models.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		SessionID:     model.SessionID,
		ParticipantID: model.ParticipantID,
		Present:       model.Present,
	}
}

// NewTrainingStatsResponse converts computed training stats into a DTO.
func NewTrainingStatsResponse(stats models.TrainingStats) TrainingStatsResponse {
	return TrainingStatsResponse{
		TotalOutputs:  stats.TotalOutputs,
		Overdue:       stats.Overdue,
		PendingReview: stats.PendingReview,
		Completed:     stats.Completed,
	}
}
