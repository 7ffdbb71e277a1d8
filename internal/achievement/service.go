package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/progression"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// RewardInvalidator drops cached aggregates after a profile write
type RewardInvalidator interface {
	InvalidateForReward(ctx context.Context, participantID, guild string)
}

// Service lists achievements and re-runs the rule set outside a completion
type Service interface {
	List(ctx context.Context, participantID string) ([]domain.AchievementStatus, error)
	// Check unlocks anything the participant qualifies for but does not hold yet.
	// Calling it again without a state change unlocks nothing.
	Check(ctx context.Context, participantID string) ([]domain.Achievement, error)
}

type service struct {
	repo        repository.Achievement
	rules       *RuleSet
	locks       *concurrency.LockManager
	invalidator RewardInvalidator
	publisher   event.Publisher
	now         func() time.Time
}

// NewService creates an achievement service. invalidator and publisher may be nil.
func NewService(repo repository.Achievement, rules *RuleSet, locks *concurrency.LockManager, invalidator RewardInvalidator, publisher event.Publisher) Service {
	return &service{
		repo:        repo,
		rules:       rules,
		locks:       locks,
		invalidator: invalidator,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *service) List(ctx context.Context, participantID string) ([]domain.AchievementStatus, error) {
	unlocks, err := s.repo.ListUnlocks(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.AchievementKey] = u.UnlockedAt
	}

	catalog := s.rules.Achievements()
	statuses := make([]domain.AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		status := domain.AchievementStatus{Achievement: a}
		if at, ok := unlockedAt[a.Key]; ok {
			status.Unlocked = true
			status.UnlockedAt = &at
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *service) Check(ctx context.Context, participantID string) ([]domain.Achievement, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.ParticipantKey(participantID))
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.repo.BeginProgressTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	profile, err := tx.GetProfileForUpdate(ctx, participantID)
	if err != nil {
		return nil, err
	}

	snap, unlocked, err := LoadSnapshot(ctx, tx, participantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	base := progression.Hold(progression.SnapshotOf(profile))
	_, earned := s.rules.Settle(base, snap, unlocked)
	if len(earned) == 0 {
		log.Debug(LogMsgCheckCompleted, "participant_id", participantID, "unlocked", 0)
		return []domain.Achievement{}, nil
	}

	recorded, err := Record(ctx, tx, participantID, earned, now)
	if err != nil {
		return nil, err
	}

	if bonus := TotalBonus(recorded); bonus > 0 {
		final := progression.ApplyBonus(base, bonus)
		if err := tx.UpdateProfile(ctx, participantID, final.ProfileUpdate()); err != nil {
			return nil, fmt.Errorf("failed to apply achievement bonus: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateForReward(ctx, participantID, profile.Guild)
	}
	Publish(ctx, s.publisher, participantID, recorded)

	log.Info(LogMsgCheckCompleted, "participant_id", participantID, "unlocked", len(recorded))
	return recorded, nil
}

// LoadSnapshot reads the counters the rule set judges, plus the keys already unlocked
func LoadSnapshot(ctx context.Context, tx repository.ProgressTx, participantID string) (Snapshot, map[string]struct{}, error) {
	completed, err := tx.CountCompletedAttempts(ctx, participantID)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf(ErrMsgLoadStateFailed, err)
	}
	times, err := tx.GetCompletionTimes(ctx, participantID)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf(ErrMsgLoadStateFailed, err)
	}
	unlocked, err := tx.GetUnlockedAchievementKeys(ctx, participantID)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf(ErrMsgLoadStateFailed, err)
	}
	if unlocked == nil {
		unlocked = make(map[string]struct{})
	}
	return Snapshot{QuestsCompleted: completed, CompletionTimes: times}, unlocked, nil
}

// Publish emits one unlock event per recorded achievement
func Publish(ctx context.Context, publisher event.Publisher, participantID string, recorded []domain.Achievement) {
	if publisher == nil {
		return
	}
	for _, a := range recorded {
		publisher.PublishWithRetry(ctx, event.NewAchievementUnlockedEvent(participantID, a))
	}
}
