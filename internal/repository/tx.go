package repository

import (
	"context"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// JournalTx records the audit trail and notifications of a transactional change
type JournalTx interface {
	Tx
	InsertActivity(ctx context.Context, entry *domain.ActivityLog) error
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// ProgressTx is everything the reward path reads and writes.
// Profiles are locked for the lifetime of the transaction once read for update.
type ProgressTx interface {
	JournalTx
	GetProfileForUpdate(ctx context.Context, participantID string) (*domain.ParticipantProfile, error)
	UpdateProfile(ctx context.Context, participantID string, update domain.ProfileUpdate) error
	CountCompletedAttempts(ctx context.Context, participantID string) (int, error)
	GetCompletionTimes(ctx context.Context, participantID string) ([]time.Time, error)
	GetUnlockedAchievementKeys(ctx context.Context, participantID string) (map[string]struct{}, error)
	// InsertAchievementUnlock returns false when the pair was already unlocked
	InsertAchievementUnlock(ctx context.Context, unlock domain.AchievementUnlock) (bool, error)
}

// QuestTx extends the reward path with attempt and capacity writes
type QuestTx interface {
	ProgressTx
	// IncrementParticipants returns domain.ErrQuestFull when the quest is at capacity
	IncrementParticipants(ctx context.Context, questID string) error
	// InsertAttempt returns domain.ErrAlreadyAccepted on a duplicate (participant, quest) pair
	InsertAttempt(ctx context.Context, attempt *domain.QuestAttempt) error
	GetAttemptForUpdate(ctx context.Context, attemptID string) (*domain.QuestAttempt, error)
	// SubmitProof marks an in-progress attempt as awaiting review. The reference,
	// which may be nil, replaces any earlier one.
	SubmitProof(ctx context.Context, attemptID string, proofReference *string, submittedAt time.Time) error
	// CompleteAttempt returns domain.ErrAttemptNotActive unless the attempt is still in progress
	CompleteAttempt(ctx context.Context, attemptID string, completion domain.AttemptCompletion) error
	// RejectSubmission clears the submission so the participant can resubmit
	RejectSubmission(ctx context.Context, attemptID, reviewerID string, reviewedAt time.Time) error
}

// EconomyTx debits gold and journals the purchase
type EconomyTx interface {
	JournalTx
	// DebitGold returns domain.ErrInsufficientFunds when the balance would go negative
	DebitGold(ctx context.Context, participantID string, amount int64) (int64, error)
}
