package dto

import (
	"time"

	"github.com/formahub/formahub-api/internal/models"
)

// CreathonMemberPayload describes one mentor/jury entry in an update request.
type CreathonMemberPayload struct {
	Name  string `json:"name" validate:"omitempty,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// CreathonMembersUpdateRequest replaces the member list for one role.
type CreathonMembersUpdateRequest struct {
	Role            string                  `json:"role" validate:"required,oneof=mentor jury"`
	Members         []CreathonMemberPayload `json:"members" validate:"required,dive"`
	SendInvitations bool                    `json:"send_invitations"`
}

// CreathonInvitationRequest triggers invitation emails for one role.
type CreathonInvitationRequest struct {
	Role string `json:"role" validate:"required,oneof=mentor jury"`
}

// CreathonMemberArchiveRequest toggles the archived flag of a member account.
type CreathonMemberArchiveRequest struct {
	Archived bool `json:"archived"`
}

// CreathonMemberResponse serializes a creathon team member.
type CreathonMemberResponse struct {
	ID        uint       `json:"id"`
	Role      string     `json:"role"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Archived  bool       `json:"archived"`
	InvitedAt *time.Time `json:"invited_at"`
}

// CreathonResponse serializes a creathon with its team.
type CreathonResponse struct {
	ID        uint                     `json:"id"`
	Name      string                   `json:"name"`
	RegionID  string                   `json:"region_id"`
	StartDate time.Time                `json:"start_date"`
	EndDate   time.Time                `json:"end_date"`
	Mentors   []CreathonMemberResponse `json:"mentors"`
	Jury      []CreathonMemberResponse `json:"jury"`
}

// NewCreathonMemberResponse converts a member model into a DTO.
func NewCreathonMemberResponse(model models.CreathonMember) CreathonMemberResponse {
	return CreathonMemberResponse{
		ID:        model.ID,
		Role:      model.Role,
		Name:      model.Name,
		Email:     model.Email,
		Archived:  model.Archived,
		InvitedAt: model.InvitedAt,
	}
}

// NewCreathonResponse converts a creathon model into a DTO, splitting the
// team by role.
func NewCreathonResponse(model models.Creathon) CreathonResponse {
	response := CreathonResponse{
		ID:        model.ID,
		Name:      model.Name,
		RegionID:  model.RegionID,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
		Mentors:   []CreathonMemberResponse{},
		Jury:      []CreathonMemberResponse{},
	}

	for _, member := range model.Members {
		converted := NewCreathonMemberResponse(member)
		switch member.Role {
		case models.CreathonRoleJury:
			response.Jury = append(response.Jury, converted)
		default:
			response.Mentors = append(response.Mentors, converted)
		}
	}

	return response
}
