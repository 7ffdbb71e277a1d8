package quest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

func (s *service) Create(ctx context.Context, authorID string, input CreateQuestInput) (*domain.Quest, error) {
	log := logger.FromContext(ctx)

	author, err := s.repo.GetProfile(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !author.Role.CanAuthorQuests() {
		return nil, fmt.Errorf("%w: role %s cannot create quests", domain.ErrForbidden, author.Role)
	}

	now := s.now()
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	startsAt := now
	if input.StartsAt != nil {
		startsAt = *input.StartsAt
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(startsAt) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgBadWindow)
	}

	quest := &domain.Quest{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Difficulty:      input.Difficulty,
		XPReward:        input.XPReward,
		GoldReward:      input.GoldReward,
		Requirement:     input.Requirement,
		StartsAt:        startsAt,
		ExpiresAt:       input.ExpiresAt,
		MaxParticipants: input.MaxParticipants,
		TargetGuilds:    input.TargetGuilds,
		IsActive:        true,
		CreatedBy:       authorID,
		CreatedAt:       now,
	}
	if err := s.repo.CreateQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to create quest: %w", err)
	}

	log.Info(LogMsgQuestCreated, "quest_id", quest.ID, "author_id", authorID, "requirement", quest.Requirement.Type())
	return quest, nil
}

func (s *service) validateInput(input *CreateQuestInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgTitleRequired)
	}
	if input.Difficulty == "" {
		input.Difficulty = domain.DifficultyCommon
	}
	if !input.Difficulty.Valid() {
		return fmt.Errorf("%w: "+ErrMsgBadDifficulty, domain.ErrInvalidInput, input.Difficulty)
	}
	if input.XPReward < 0 || input.GoldReward < 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgBadReward)
	}
	if input.MaxParticipants != nil && *input.MaxParticipants <= 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgBadCapacity)
	}
	if err := domain.ValidateRequirement(input.Requirement); err != nil {
		return err
	}
	for _, code := range input.TargetGuilds {
		if _, ok := s.guilds.Guild(code); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownGuild, code)
		}
	}
	return nil
}

func (s *service) History(ctx context.Context, participantID string) (*domain.QuestHistory, error) {
	entries, err := s.repo.GetAttemptHistory(ctx, participantID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load quest history: %w", err)
	}

	now := s.now()
	history := &domain.QuestHistory{Attempts: entries}
	if history.Attempts == nil {
		history.Attempts = []domain.AttemptHistoryEntry{}
	}
	// Totals cover the returned page only
	for i := range history.Attempts {
		entry := &history.Attempts[i]
		entry.Derive(now)
		switch entry.DisplayStatus {
		case domain.AttemptStatusCompleted:
			history.Totals.Completed++
			history.Totals.XPEarned += entry.XPAwarded
			history.Totals.GoldEarned += entry.GoldAwarded
		case domain.AttemptStatusInProgress:
			history.Totals.InProgress++
		}
	}
	return history, nil
}
