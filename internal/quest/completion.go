package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/progression"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// approval identifies the reviewer of a manual completion
type approval struct {
	reviewerID string
	note       string
}

// complete runs the reward path for an attempt in one transaction. The attempt
// write, profile write, journal, unlocks and notifications commit together.
// A nil proofRef keeps whatever reference the attempt already holds.
func (s *service) complete(ctx context.Context, quest *domain.Quest, attemptID, participantID string, proofRef *string, by *approval) (*domain.CompletionResult, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.ParticipantKey(participantID))
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.repo.BeginQuestTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	attempt, err := tx.GetAttemptForUpdate(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != domain.AttemptStatusInProgress {
		return nil, domain.ErrAttemptNotActive
	}
	if by != nil && !attempt.AwaitingReview() {
		return nil, domain.ErrNothingToReview
	}

	profile, err := tx.GetProfileForUpdate(ctx, participantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reward := progression.ScaleReward(quest.XPReward, quest.GoldReward, quest.Difficulty)
	base := progression.Apply(progression.SnapshotOf(profile), reward, now)

	completion := domain.AttemptCompletion{
		CompletedAt:    now,
		XPAwarded:      reward.XP,
		GoldAwarded:    reward.Gold,
		ProofReference: proofRef,
	}
	if by != nil {
		completion.ReviewerID = &by.reviewerID
		completion.ReviewedAt = &now
	}
	if err := tx.CompleteAttempt(ctx, attemptID, completion); err != nil {
		return nil, err
	}

	// The snapshot is read after the attempt write so this completion counts
	snap, unlocked, err := achievement.LoadSnapshot(ctx, tx, participantID)
	if err != nil {
		return nil, err
	}
	_, earned := s.rules.Settle(base, snap, unlocked)
	recorded, err := achievement.Record(ctx, tx, participantID, earned, now)
	if err != nil {
		return nil, err
	}
	bonus := achievement.TotalBonus(recorded)
	final := progression.ApplyBonus(base, bonus)

	if err := tx.UpdateProfile(ctx, participantID, final.ProfileUpdate()); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := s.journalCompletion(ctx, tx, quest, participantID, reward, by, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTxFailed, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateForReward(ctx, participantID, profile.Guild)
	}
	s.publish(ctx, event.NewQuestCompletedEvent(domain.QuestCompletedPayload{
		ParticipantID: participantID,
		QuestID:       quest.ID,
		AttemptID:     attemptID,
		Guild:         profile.Guild,
		XPAwarded:     reward.XP,
		GoldAwarded:   reward.Gold,
		BonusXP:       bonus,
		NewLevel:      final.NewLevel,
		LeveledUp:     final.LeveledUp,
	}))
	achievement.Publish(ctx, s.publisher, participantID, recorded)

	log.Info(LogMsgQuestCompleted,
		"participant_id", participantID,
		"quest_id", quest.ID,
		"xp", reward.XP,
		"gold", reward.Gold,
		"bonus_xp", bonus,
		"level", final.NewLevel)

	return &domain.CompletionResult{
		Status:       domain.CompletionStatusCompleted,
		AttemptID:    attemptID,
		XPAwarded:    reward.XP,
		GoldAwarded:  reward.Gold,
		BonusXP:      bonus,
		NewXP:        final.NewXP,
		NewGold:      final.NewGold,
		NewLevel:     final.NewLevel,
		LeveledUp:    final.LeveledUp,
		NewStreak:    final.NewStreak,
		Achievements: recorded,
	}, nil
}

func (s *service) journalCompletion(ctx context.Context, tx repository.QuestTx, quest *domain.Quest, participantID string, reward progression.Reward, by *approval, now time.Time) error {
	if err := tx.InsertActivity(ctx, &domain.ActivityLog{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		ActionType:    domain.ActionQuestCompleted,
		Metadata: map[string]any{
			"quest_id":    quest.ID,
			"xp_earned":   reward.XP,
			"gold_earned": reward.Gold,
		},
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to log completion: %w", err)
	}

	if by != nil {
		if err := tx.InsertActivity(ctx, reviewActivity(participantID, quest.ID, by, true, now)); err != nil {
			return fmt.Errorf("failed to log review: %w", err)
		}
	}

	if err := tx.InsertNotification(ctx, &domain.Notification{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Title:         NotificationCompletedTitle,
		Message:       fmt.Sprintf(NotificationCompletedFormat, quest.Title, reward.XP, reward.Gold),
		Type:          domain.NotificationQuest,
		CreatedAt:     now,
	}); err != nil {
		return fmt.Errorf("failed to notify completion: %w", err)
	}
	return nil
}

func reviewActivity(participantID, questID string, by *approval, approved bool, now time.Time) *domain.ActivityLog {
	metadata := map[string]any{
		"quest_id":    questID,
		"reviewer_id": by.reviewerID,
		"approved":    approved,
	}
	if by.note != "" {
		metadata["note"] = by.note
	}
	return &domain.ActivityLog{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		ActionType:    domain.ActionQuestReviewed,
		Metadata:      metadata,
		CreatedAt:     now,
	}
}
