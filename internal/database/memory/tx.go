package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// tx applies writes in place and keeps undo steps for Rollback.
// The store mutex is held for the lifetime of the transaction.
type tx struct {
	s      *Store
	undo   []func()
	closed bool
}

var (
	_ repository.QuestTx   = (*tx)(nil)
	_ repository.EconomyTx = (*tx)(nil)
)

func (t *tx) Commit(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	t.undo = nil
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.s.mu.Unlock()
	return nil
}

func (t *tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *tx) InsertActivity(_ context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = t.s.now()
	}
	n := len(t.s.activity)
	t.s.activity = append(t.s.activity, *entry)
	t.onRollback(func() { t.s.activity = t.s.activity[:n] })
	return nil
}

func (t *tx) InsertNotification(_ context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = t.s.now()
	}
	cp := *n
	size := len(t.s.notifications)
	t.s.notifications = append(t.s.notifications, &cp)
	t.onRollback(func() { t.s.notifications = t.s.notifications[:size] })
	return nil
}

func (t *tx) GetProfileForUpdate(_ context.Context, participantID string) (*domain.ParticipantProfile, error) {
	return t.s.profileCopy(participantID)
}

func (t *tx) UpdateProfile(_ context.Context, participantID string, update domain.ProfileUpdate) error {
	p, ok := t.s.profiles[participantID]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	prev := *p
	t.onRollback(func() { *p = prev })

	p.XP = update.XP
	p.Gold = update.Gold
	p.Level = update.Level
	p.ActivityStreak = update.ActivityStreak
	if update.LastActiveAt.IsZero() {
		p.LastActiveAt = nil
	} else {
		last := update.LastActiveAt
		p.LastActiveAt = &last
	}
	p.UpdatedAt = t.s.now()
	return nil
}

func (t *tx) CountCompletedAttempts(_ context.Context, participantID string) (int, error) {
	return t.s.countCompleted(participantID), nil
}

func (t *tx) GetCompletionTimes(_ context.Context, participantID string) ([]time.Time, error) {
	var times []time.Time
	for _, a := range t.s.attempts {
		if a.ParticipantID == participantID && a.Status == domain.AttemptStatusCompleted && a.CompletedAt != nil {
			times = append(times, *a.CompletedAt)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

func (t *tx) GetUnlockedAchievementKeys(_ context.Context, participantID string) (map[string]struct{}, error) {
	keys := make(map[string]struct{}, len(t.s.unlocks[participantID]))
	for key := range t.s.unlocks[participantID] {
		keys[key] = struct{}{}
	}
	return keys, nil
}

func (t *tx) InsertAchievementUnlock(_ context.Context, unlock domain.AchievementUnlock) (bool, error) {
	byKey, ok := t.s.unlocks[unlock.ParticipantID]
	if !ok {
		byKey = make(map[string]time.Time)
		t.s.unlocks[unlock.ParticipantID] = byKey
	}
	if _, exists := byKey[unlock.AchievementKey]; exists {
		return false, nil
	}
	byKey[unlock.AchievementKey] = unlock.UnlockedAt
	t.onRollback(func() { delete(byKey, unlock.AchievementKey) })
	return true, nil
}

func (t *tx) IncrementParticipants(_ context.Context, questID string) error {
	q, ok := t.s.quests[questID]
	if !ok {
		return domain.ErrQuestNotFound
	}
	if !q.HasCapacity() {
		return domain.ErrQuestFull
	}
	q.CurrentParticipants++
	t.onRollback(func() { q.CurrentParticipants-- })
	return nil
}

func (t *tx) InsertAttempt(_ context.Context, attempt *domain.QuestAttempt) error {
	key := pairKey{attempt.ParticipantID, attempt.QuestID}
	if _, exists := t.s.attemptByPair[key]; exists {
		return domain.ErrAlreadyAccepted
	}
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	t.s.attempts[attempt.ID] = copyAttempt(attempt)
	t.s.attemptByPair[key] = attempt.ID
	t.onRollback(func() {
		delete(t.s.attempts, attempt.ID)
		delete(t.s.attemptByPair, key)
	})
	return nil
}

func (t *tx) GetAttemptForUpdate(_ context.Context, attemptID string) (*domain.QuestAttempt, error) {
	return t.s.attemptCopy(attemptID)
}

func (t *tx) SubmitProof(_ context.Context, attemptID string, proofReference *string, submittedAt time.Time) error {
	a, ok := t.s.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if a.Status != domain.AttemptStatusInProgress {
		return domain.ErrAttemptNotActive
	}
	prev := copyAttempt(a)
	t.onRollback(func() { *a = *prev })

	at := submittedAt
	a.ProofReference = copyString(proofReference)
	a.SubmittedAt = &at
	return nil
}

func (t *tx) CompleteAttempt(_ context.Context, attemptID string, completion domain.AttemptCompletion) error {
	a, ok := t.s.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if a.Status != domain.AttemptStatusInProgress {
		return domain.ErrAttemptNotActive
	}
	prev := copyAttempt(a)
	t.onRollback(func() { *a = *prev })

	completedAt := completion.CompletedAt
	a.Status = domain.AttemptStatusCompleted
	a.CompletedAt = &completedAt
	a.XPAwarded = completion.XPAwarded
	a.GoldAwarded = completion.GoldAwarded
	if completion.ProofReference != nil {
		a.ProofReference = copyString(completion.ProofReference)
	}
	if completion.ReviewerID != nil {
		a.ReviewerID = copyString(completion.ReviewerID)
		a.ReviewedAt = copyTime(completion.ReviewedAt)
	}
	return nil
}

func (t *tx) RejectSubmission(_ context.Context, attemptID, reviewerID string, reviewedAt time.Time) error {
	a, ok := t.s.attempts[attemptID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if a.Status != domain.AttemptStatusInProgress {
		return domain.ErrAttemptNotActive
	}
	prev := copyAttempt(a)
	t.onRollback(func() { *a = *prev })

	reviewer := reviewerID
	at := reviewedAt
	a.ProofReference = nil
	a.SubmittedAt = nil
	a.ReviewerID = &reviewer
	a.ReviewedAt = &at
	return nil
}

func (t *tx) DebitGold(_ context.Context, participantID string, amount int64) (int64, error) {
	p, ok := t.s.profiles[participantID]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	if p.Gold < amount {
		return p.Gold, domain.ErrInsufficientFunds
	}
	prev := *p
	t.onRollback(func() { *p = prev })

	p.Gold -= amount
	p.UpdatedAt = t.s.now()
	return p.Gold, nil
}
