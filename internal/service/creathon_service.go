package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/mailer"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
)

// ErrCreathonNotFound indicates a creathon could not be found.
var ErrCreathonNotFound = errors.New("creathon not found")

// ErrMemberNotFound indicates a creathon member could not be found.
var ErrMemberNotFound = errors.New("creathon member not found")

// CreathonService manages creathon teams and their invitations.
type CreathonService interface {
	Get(ctx context.Context, id uint) (dto.CreathonResponse, error)
	UpdateMembers(ctx context.Context, creathonID uint, payload dto.CreathonMembersUpdateRequest, actor ActivityActor) (dto.CreathonResponse, error)
	SendInvitations(ctx context.Context, creathonID uint, payload dto.CreathonInvitationRequest, actor ActivityActor) (int, error)
	ArchiveMember(ctx context.Context, memberID uint, payload dto.CreathonMemberArchiveRequest, actor ActivityActor) (dto.CreathonMemberResponse, error)
}

type creathonService struct {
	creathons repository.CreathonRepository
	mailer    mailer.Mailer
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCreathonService constructs a CreathonService instance.
func NewCreathonService(
	creathons repository.CreathonRepository,
	mail mailer.Mailer,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) CreathonService {
	return &creathonService{
		creathons: creathons,
		mailer:    mail,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "creathon_service").Logger(),
		now:       time.Now,
	}
}

func (s *creathonService) Get(ctx context.Context, id uint) (dto.CreathonResponse, error) {
	creathon, err := s.creathons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CreathonResponse{}, ErrCreathonNotFound
		}
		return dto.CreathonResponse{}, err
	}

	return dto.NewCreathonResponse(creathon), nil
}

// UpdateMembers replaces the mentor or jury list wholesale. Invitation
// timestamps do not survive the replacement.
func (s *creathonService) UpdateMembers(ctx context.Context, creathonID uint, payload dto.CreathonMembersUpdateRequest, actor ActivityActor) (dto.CreathonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CreathonResponse{}, err
	}

	if _, err := s.creathons.GetByID(ctx, creathonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CreathonResponse{}, ErrCreathonNotFound
		}
		return dto.CreathonResponse{}, err
	}

	members := make([]models.CreathonMember, 0, len(payload.Members))
	seen := make(map[string]struct{}, len(payload.Members))
	for _, entry := range payload.Members {
		email := strings.ToLower(strings.TrimSpace(entry.Email))
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}

		members = append(members, models.CreathonMember{
			Name:  strings.TrimSpace(entry.Name),
			Email: email,
		})
	}

	if err := s.creathons.ReplaceMembers(ctx, creathonID, payload.Role, members); err != nil {
		return dto.CreathonResponse{}, err
	}

	id := creathonID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "creathon.members_updated",
		EntityType: "creathon",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"role":  payload.Role,
			"count": len(members),
		},
	})

	if payload.SendInvitations {
		if _, err := s.SendInvitations(ctx, creathonID, dto.CreathonInvitationRequest{Role: payload.Role}, actor); err != nil {
			s.logger.Warn().Err(err).Uint("creathon_id", creathonID).Msg("failed to send invitations after member update")
		}
	}

	creathon, err := s.creathons.GetByID(ctx, creathonID)
	if err != nil {
		return dto.CreathonResponse{}, err
	}

	return dto.NewCreathonResponse(creathon), nil
}

// SendInvitations emails every non-archived member of one role and stamps
// InvitedAt on success. Already-invited members are emailed again with a
// refreshed timestamp, so the endpoint doubles as a resend.
func (s *creathonService) SendInvitations(ctx context.Context, creathonID uint, payload dto.CreathonInvitationRequest, actor ActivityActor) (int, error) {
	if err := s.validator.Struct(payload); err != nil {
		return 0, err
	}

	creathon, err := s.creathons.GetByID(ctx, creathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCreathonNotFound
		}
		return 0, err
	}

	members, err := s.creathons.ListMembers(ctx, creathonID, payload.Role)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range members {
		member := &members[i]
		if member.Archived {
			continue
		}

		msg := mailer.Message{
			ToName:   member.Name,
			ToEmail:  member.Email,
			Subject:  fmt.Sprintf("Invitation to join %s as %s", creathon.Name, member.Role),
			TextBody: fmt.Sprintf("Hello %s,\n\nYou have been invited to join the creathon '%s' as a %s.\n", member.Name, creathon.Name, member.Role),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn().Err(err).Str("email", member.Email).Msg("invitation delivery failed")
			continue
		}

		invitedAt := s.now()
		member.InvitedAt = &invitedAt
		if err := s.creathons.UpdateMember(ctx, member); err != nil {
			s.logger.Error().Err(err).Uint("member_id", member.ID).Msg("failed to stamp invitation")
			continue
		}
		sent++
	}

	id := creathonID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "creathon.invitations_sent",
		EntityType: "creathon",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"role": payload.Role,
			"sent": sent,
		},
	})

	s.logger.Info().Uint("creathon_id", creathonID).Str("role", payload.Role).Int("sent", sent).Msg("invitations processed")

	return sent, nil
}

// ArchiveMember toggles a member's archived flag without removing the row.
func (s *creathonService) ArchiveMember(ctx context.Context, memberID uint, payload dto.CreathonMemberArchiveRequest, actor ActivityActor) (dto.CreathonMemberResponse, error) {
	member, err := s.creathons.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CreathonMemberResponse{}, ErrMemberNotFound
		}
		return dto.CreathonMemberResponse{}, err
	}

	member.Archived = payload.Archived
	if err := s.creathons.UpdateMember(ctx, &member); err != nil {
		return dto.CreathonMemberResponse{}, err
	}

	id := member.CreathonID
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "creathon.member_archived",
		EntityType: "creathon",
		EntityID:   &id,
		Metadata: map[string]interface{}{
			"member_id": member.ID,
			"archived":  payload.Archived,
		},
	})

	return dto.NewCreathonMemberResponse(member), nil
}
