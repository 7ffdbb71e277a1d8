package user

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// GuildCatalog resolves guild codes
type GuildCatalog interface {
	Guild(code string) (domain.Guild, bool)
}

// RegisterInput is the identity handed over by the external identity provider
type RegisterInput struct {
	ID          string
	DisplayName string
	Email       string
	Guild       string
	Role        domain.Role
}

// Service defines the interface for participant profiles
type Service interface {
	// Register creates the profile or refreshes its identity fields. Progress is never reset.
	Register(ctx context.Context, input RegisterInput) (*domain.ParticipantProfile, error)
	Get(ctx context.Context, participantID string) (*domain.ParticipantProfile, error)
}

type service struct {
	repo   repository.Participant
	guilds GuildCatalog
}

// NewService creates a new user service
func NewService(repo repository.Participant, guilds GuildCatalog) Service {
	return &service{
		repo:   repo,
		guilds: guilds,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*domain.ParticipantProfile, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRegisterCalled, "participant_id", input.ID, "guild", input.Guild)

	profile, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		log.Error(LogErrUpsertFailed, "error", err, "participant_id", input.ID)
		return nil, fmt.Errorf(ErrMsgUpsertFailed, err)
	}

	log.Info(LogMsgParticipantUpserted, "participant_id", profile.ID, "guild", profile.Guild, "role", profile.Role)
	return profile, nil
}

func (s *service) validate(input RegisterInput) (*domain.ParticipantProfile, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgIDRequired)
	}
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgDisplayNameRequired)
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgDisplayNameTooLong)
	}
	guild := strings.ToUpper(strings.TrimSpace(input.Guild))
	if _, ok := s.guilds.Guild(guild); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGuild, input.Guild)
	}
	role := input.Role
	if role == "" {
		role = domain.RolePlayer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, input.Role)
	}

	return &domain.ParticipantProfile{
		ID:          id,
		DisplayName: name,
		Email:       strings.TrimSpace(input.Email),
		Guild:       guild,
		Role:        role,
	}, nil
}

func (s *service) Get(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	return s.repo.GetProfile(ctx, participantID)
}
