package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// Record persists unlock rows, notifications and activity entries for earned
// achievements inside tx. An unlock that already exists is skipped without error
// and dropped from the returned slice.
func Record(ctx context.Context, tx repository.ProgressTx, participantID string, earned []domain.Achievement, now time.Time) ([]domain.Achievement, error) {
	log := logger.FromContext(ctx)

	recorded := make([]domain.Achievement, 0, len(earned))
	for _, a := range earned {
		inserted, err := tx.InsertAchievementUnlock(ctx, domain.AchievementUnlock{
			ParticipantID:  participantID,
			AchievementKey: a.Key,
			UnlockedAt:     now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record achievement %s: %w", a.Key, err)
		}
		if !inserted {
			continue
		}

		if err := tx.InsertNotification(ctx, UnlockNotification(participantID, a, now)); err != nil {
			return nil, fmt.Errorf("failed to notify achievement %s: %w", a.Key, err)
		}
		if err := tx.InsertActivity(ctx, &domain.ActivityLog{
			ID:            uuid.New().String(),
			ParticipantID: participantID,
			ActionType:    domain.ActionAchievementEarned,
			Metadata: map[string]any{
				"achievement_key": a.Key,
				"xp_bonus":        a.BonusXP,
			},
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("failed to log achievement %s: %w", a.Key, err)
		}

		log.Info(LogMsgAchievementUnlocked, "participant_id", participantID, "achievement", a.Key, "bonus_xp", a.BonusXP)
		recorded = append(recorded, a)
	}
	return recorded, nil
}

// UnlockNotification builds the inbox entry for an unlock
func UnlockNotification(participantID string, a domain.Achievement, now time.Time) *domain.Notification {
	return &domain.Notification{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Title:         NotificationTitle,
		Message:       fmt.Sprintf(NotificationFormat, a.Name, a.Description, a.BonusXP),
		Type:          domain.NotificationAchievement,
		CreatedAt:     now,
	}
}
