package quest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/catalog"
	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/database/memory"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/progression"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingInvalidator) InvalidateForReward(_ context.Context, participantID, guild string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, participantID+"@"+guild)
}

type fixture struct {
	store       *memory.Store
	svc         *service
	publisher   *recordingPublisher
	invalidator *recordingInvalidator
	now         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := catalog.Default()
	f := &fixture{
		store:       memory.NewStore(),
		publisher:   &recordingPublisher{},
		invalidator: &recordingInvalidator{},
		now:         time.Date(2026, 4, 14, 10, 30, 0, 0, time.UTC),
	}
	svc := NewService(f.store, cat, achievement.NewRuleSet(cat.Achievements, time.UTC),
		concurrency.NewLockManager(), f.invalidator, f.publisher).(*service)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *fixture) participant(t *testing.T, id string, role domain.Role) {
	t.Helper()
	require.NoError(t, f.store.UpsertProfile(context.Background(), &domain.ParticipantProfile{
		ID: id, DisplayName: id, Guild: "CCSICT", Role: role,
	}))
}

func (f *fixture) progress(t *testing.T, id string, update domain.ProfileUpdate) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginProgressTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateProfile(ctx, id, update))
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) quest(t *testing.T, q domain.Quest) *domain.Quest {
	t.Helper()
	if q.ID == "" {
		q.ID = "quest-" + q.Title
	}
	q.IsActive = true
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyCommon
	}
	if q.StartsAt.IsZero() {
		q.StartsAt = f.now.Add(-time.Hour)
	}
	require.NoError(t, f.store.CreateQuest(context.Background(), &q))
	return &q
}

func qrQuest() domain.Quest {
	return domain.Quest{
		Title:       "Library",
		XPReward:    100,
		GoldReward:  50,
		Requirement: domain.QRCodeRequirement{Code: "ABC123"},
	}
}

func TestSubmitCompletion_QRCodeEndToEnd(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	q := f.quest(t, qrQuest())
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	// ACT
	result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "abc123"})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, domain.CompletionStatusCompleted, result.Status)
	assert.Equal(t, int64(100), result.XPAwarded)
	assert.Equal(t, int64(50), result.GoldAwarded)
	assert.Equal(t, int64(50), result.BonusXP)
	assert.Equal(t, int64(150), result.NewXP)
	assert.Equal(t, int64(50), result.NewGold)
	assert.Equal(t, 1, result.NewLevel)
	assert.Equal(t, 1, result.NewStreak)
	require.Len(t, result.Achievements, 1)
	assert.Equal(t, "first_steps", result.Achievements[0].Key)
	assert.True(t, result.Verification.Satisfied)

	profile, err := f.store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), profile.XP)
	assert.Equal(t, int64(50), profile.Gold)
	require.NotNil(t, profile.LastActiveAt)
	assert.Equal(t, f.now, *profile.LastActiveAt)

	attempt, err := f.store.GetAttempt(ctx, "p1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusCompleted, attempt.Status)
	assert.Equal(t, int64(100), attempt.XPAwarded)

	var completedLog *domain.ActivityLog
	entries := f.store.ActivityLog("p1")
	for i := range entries {
		if entries[i].ActionType == domain.ActionQuestCompleted {
			completedLog = &entries[i]
		}
	}
	require.NotNil(t, completedLog)
	assert.Equal(t, q.ID, completedLog.Metadata["quest_id"])
	assert.Equal(t, int64(100), completedLog.Metadata["xp_earned"])
	assert.Equal(t, int64(50), completedLog.Metadata["gold_earned"])

	inbox, err := f.store.ListNotifications(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	titles := []string{inbox[0].Title, inbox[1].Title}
	assert.Contains(t, titles, achievement.NotificationTitle)
	assert.Contains(t, titles, NotificationCompletedTitle)

	assert.Equal(t, []string{"p1@CCSICT"}, f.invalidator.calls)
	assert.Equal(t, []event.Type{event.QuestAccepted, event.QuestCompleted, event.AchievementUnlocked}, f.publisher.types())
}

func TestSubmitCompletion_ScalesByDifficulty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	spec := qrQuest()
	spec.Difficulty = domain.DifficultyEpic
	q := f.quest(t, spec)
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})

	require.NoError(t, err)
	assert.Equal(t, int64(300), result.XPAwarded)
	assert.Equal(t, int64(150), result.GoldAwarded)
}

func TestSubmitCompletion_StreakUnlocksDedicated(t *testing.T) {
	tests := []struct {
		name          string
		lastActiveAgo time.Duration
		wantStreak    int
		wantDedicated bool
	}{
		{"next day extends to seven", 25 * time.Hour, 7, true},
		{"same day keeps six", 3 * time.Hour, 6, false},
		{"lapse resets", 72 * time.Hour, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			ctx := context.Background()
			f := newFixture(t)
			f.participant(t, "p1", domain.RolePlayer)
			f.progress(t, "p1", domain.ProfileUpdate{
				Level:          1,
				ActivityStreak: 6,
				LastActiveAt:   f.now.Add(-tt.lastActiveAgo),
			})
			q := f.quest(t, qrQuest())
			_, err := f.svc.Accept(ctx, "p1", q.ID)
			require.NoError(t, err)

			// ACT
			result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})

			// ASSERT
			require.NoError(t, err)
			assert.Equal(t, tt.wantStreak, result.NewStreak)
			keys := make([]string, 0, len(result.Achievements))
			for _, a := range result.Achievements {
				keys = append(keys, a.Key)
			}
			if tt.wantDedicated {
				assert.Contains(t, keys, "dedicated")
				assert.Equal(t, int64(150), result.BonusXP)
			} else {
				assert.NotContains(t, keys, "dedicated")
			}
		})
	}
}

func TestSubmitCompletion_BonusCrossingLevelUnlocksRisingStar(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.progress(t, "p1", domain.ProfileUpdate{XP: 8850, Level: progression.Level(8850)})
	q := f.quest(t, qrQuest())
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	// ACT
	result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})

	// ASSERT
	require.NoError(t, err)
	require.Len(t, result.Achievements, 2)
	assert.Equal(t, "first_steps", result.Achievements[0].Key)
	assert.Equal(t, "rising_star", result.Achievements[1].Key)
	assert.Equal(t, int64(9200), result.NewXP)
	assert.Equal(t, 10, result.NewLevel)
	assert.True(t, result.LeveledUp)
}

func TestSubmitCompletion_EarlyBirdUsesCampusZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	manila := time.FixedZone("PHT", 8*3600)
	cat := catalog.Default()
	f.svc.rules = achievement.NewRuleSet(cat.Achievements, manila)
	// 23:30 UTC is 07:30 the next morning on campus
	f.now = time.Date(2026, 4, 14, 23, 30, 0, 0, time.UTC)
	f.participant(t, "p1", domain.RolePlayer)
	q := f.quest(t, qrQuest())
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})

	require.NoError(t, err)
	keys := []string{}
	for _, a := range result.Achievements {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "early_bird")
}

func TestSubmitCompletion_VerificationFailure(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	q := f.quest(t, domain.Quest{
		Title:       "Oval",
		XPReward:    100,
		Requirement: domain.GPSRequirement{Latitude: 14.6507, Longitude: 121.0687, RadiusMeters: 100},
	})
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)
	lat, lon := 14.6600, 121.0687

	// ACT
	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Latitude: &lat, Longitude: &lon})

	// ASSERT
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVerificationFailed)
	var verr *domain.VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.ReasonOutOfRange, verr.Outcome.Detail.Reason)
	require.NotNil(t, verr.Outcome.Detail.DistanceMeters)
	assert.Greater(t, *verr.Outcome.Detail.DistanceMeters, 100.0)

	attempt, _ := f.store.GetAttempt(ctx, "p1", q.ID)
	assert.Equal(t, domain.AttemptStatusInProgress, attempt.Status)
	profile, _ := f.store.GetProfile(ctx, "p1")
	assert.Zero(t, profile.XP)
}

func TestSubmitCompletion_StateErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	expiry := f.now.Add(time.Hour)
	spec := qrQuest()
	spec.ExpiresAt = &expiry
	q := f.quest(t, spec)

	_, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "no attempt yet")

	_, err = f.svc.SubmitCompletion(ctx, "p1", "missing", domain.SubmittedProof{Code: "ABC123"})
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	_, err = f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	f.now = expiry.Add(time.Minute)
	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "expired attempt")

	history, err := f.svc.History(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, history.Attempts, 1)
	assert.Equal(t, domain.AttemptStatusExpired, history.Attempts[0].DisplayStatus)
	assert.Zero(t, history.Totals.InProgress)
}

func TestSubmitCompletion_SecondSubmissionIsInvalidState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	q := f.quest(t, qrQuest())
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})
	require.NoError(t, err)

	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"})

	assert.ErrorIs(t, err, domain.ErrAttemptNotActive)
	profile, _ := f.store.GetProfile(ctx, "p1")
	assert.Equal(t, int64(150), profile.XP, "rewarded exactly once")
}

func TestAccept_CheckOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "p2", domain.RolePlayer)
	past := f.now.Add(-time.Minute)
	capacity := 1

	expiredFull := qrQuest()
	expiredFull.Title = "expired-full"
	expiredFull.ExpiresAt = &past
	expiredFull.MaxParticipants = &capacity
	expiredFull.CurrentParticipants = 1
	q1 := f.quest(t, expiredFull)

	notStarted := qrQuest()
	notStarted.Title = "later"
	notStarted.StartsAt = f.now.Add(time.Hour)
	q2 := f.quest(t, notStarted)

	single := qrQuest()
	single.Title = "single"
	single.MaxParticipants = &capacity
	q3 := f.quest(t, single)

	_, err := f.svc.Accept(ctx, "p1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Accept(ctx, "p1", q1.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "inactive state wins over capacity")

	_, err = f.svc.Accept(ctx, "p1", q2.ID)
	assert.ErrorIs(t, err, domain.ErrQuestNotStarted)

	_, err = f.svc.Accept(ctx, "p1", q3.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, "p1", q3.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded, "capacity wins over duplicate")

	_, err = f.svc.Accept(ctx, "p2", q3.ID)
	assert.ErrorIs(t, err, domain.ErrQuestFull)

	open := f.quest(t, domain.Quest{Title: "open", Requirement: domain.QRCodeRequirement{Code: "X"}})
	_, err = f.svc.Accept(ctx, "p1", open.ID)
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, "p1", open.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
}

func TestAccept_ConcurrentNeverExceedsCapacity(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	const participants, capacity = 12, 4
	limit := capacity
	spec := qrQuest()
	spec.MaxParticipants = &limit
	q := f.quest(t, spec)
	ids := make([]string, participants)
	for i := range ids {
		ids[i] = "p" + string(rune('a'+i))
		f.participant(t, ids[i], domain.RolePlayer)
	}

	// ACT
	var wg sync.WaitGroup
	errs := make([]error, participants)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.Accept(ctx, id, q.ID)
		}(i, id)
	}
	wg.Wait()

	// ASSERT
	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	}
	assert.Equal(t, capacity, accepted)
	stored, err := f.store.GetQuest(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, stored.CurrentParticipants)
}

func TestSubmitCompletion_ConcurrentDuplicatesRewardOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	q := f.quest(t, qrQuest())
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{Code: "ABC123"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	profile, _ := f.store.GetProfile(ctx, "p1")
	assert.Equal(t, int64(150), profile.XP)
	unlocked, _ := f.store.CountUnlockedAchievements(ctx, "p1")
	assert.Equal(t, 1, unlocked)
}

func TestReview_RejectThenApprove(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "giver", domain.RoleQuestGiver)
	q := f.quest(t, domain.Quest{
		Title:       "Seminar",
		XPReward:    200,
		GoldReward:  20,
		Requirement: domain.ManualRequirement{Instructions: "Show your certificate"},
	})
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	pending, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{ProofReference: "s3://bucket/evidence/p1/cert.jpg"})
	require.NoError(t, err)
	require.Equal(t, domain.CompletionStatusPendingReview, pending.Status)
	assert.Equal(t, domain.ReasonRequiresReview, pending.Verification.Detail.Reason)

	_, err = f.svc.Review(ctx, "p1", pending.AttemptID, true, "")
	assert.ErrorIs(t, err, domain.ErrForbidden, "players cannot review")

	// ACT
	rejected, err := f.svc.Review(ctx, "giver", pending.AttemptID, false, "blurry photo")
	require.NoError(t, err)
	assert.False(t, rejected.Approved)

	attempt, _ := f.store.GetAttemptByID(ctx, pending.AttemptID)
	assert.Equal(t, domain.AttemptStatusInProgress, attempt.Status)
	assert.Nil(t, attempt.ProofReference)
	assert.Nil(t, attempt.SubmittedAt)
	assert.False(t, attempt.AwaitingReview())
	require.NotNil(t, attempt.ReviewerID)
	assert.Equal(t, "giver", *attempt.ReviewerID)

	_, err = f.svc.Review(ctx, "giver", pending.AttemptID, true, "")
	assert.ErrorIs(t, err, domain.ErrNothingToReview)

	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{ProofReference: "s3://bucket/evidence/p1/cert2.jpg"})
	require.NoError(t, err)
	approved, err := f.svc.Review(ctx, "giver", pending.AttemptID, true, "")

	// ASSERT
	require.NoError(t, err)
	require.True(t, approved.Approved)
	require.NotNil(t, approved.Completion)
	assert.Equal(t, int64(200), approved.Completion.XPAwarded)

	attempt, _ = f.store.GetAttemptByID(ctx, pending.AttemptID)
	assert.Equal(t, domain.AttemptStatusCompleted, attempt.Status)
	require.NotNil(t, attempt.ReviewedAt)
	require.NotNil(t, attempt.ProofReference, "approval keeps the submitted reference")
	assert.Equal(t, "s3://bucket/evidence/p1/cert2.jpg", *attempt.ProofReference)

	inbox, _ := f.store.ListNotifications(ctx, "p1", 10)
	var rejectedNote *domain.Notification
	for i := range inbox {
		if inbox[i].Title == NotificationRejectedTitle {
			rejectedNote = &inbox[i]
		}
	}
	require.NotNil(t, rejectedNote)
	assert.Contains(t, rejectedNote.Message, "blurry photo")
	assert.Contains(t, f.publisher.types(), event.QuestRejected)
}

func TestSubmitCompletion_ManualWithoutProofAwaitsReview(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "giver", domain.RoleQuestGiver)
	q := f.quest(t, domain.Quest{
		Title:       "Check-in",
		XPReward:    80,
		Requirement: domain.ManualRequirement{Instructions: "Check in with the organizer"},
	})
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	// ACT
	pending, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, domain.CompletionStatusPendingReview, pending.Status)
	assert.Equal(t, domain.ReasonRequiresReview, pending.Verification.Detail.Reason)

	attempt, err := f.store.GetAttemptByID(ctx, pending.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusInProgress, attempt.Status)
	assert.Nil(t, attempt.ProofReference)
	require.NotNil(t, attempt.SubmittedAt)
	assert.Equal(t, f.now, *attempt.SubmittedAt)
	assert.True(t, attempt.AwaitingReview())

	profile, _ := f.store.GetProfile(ctx, "p1")
	assert.Zero(t, profile.XP, "nothing is awarded before review")

	approved, err := f.svc.Review(ctx, "giver", pending.AttemptID, true, "seen at the desk")
	require.NoError(t, err)
	require.NotNil(t, approved.Completion)
	assert.Equal(t, int64(80), approved.Completion.XPAwarded)
}

func TestSubmitCompletion_EvidenceUploadKeepsReference(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "giver", domain.RoleQuestGiver)
	q := f.quest(t, domain.Quest{
		Title:       "Mural",
		XPReward:    120,
		GoldReward:  30,
		Requirement: domain.EvidenceRequirement{Description: "Photo of the mural"},
	})
	_, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{ProofReference: "  "})
	require.ErrorIs(t, err, domain.ErrVerificationFailed)

	const ref = "s3://bucket/evidence/p1/mural.jpg"

	// ACT
	result, err := f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{ProofReference: " " + ref + " "})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, domain.CompletionStatusCompleted, result.Status)
	assert.Equal(t, int64(120), result.XPAwarded)

	attempt, err := f.store.GetAttempt(ctx, "p1", q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusCompleted, attempt.Status)
	require.NotNil(t, attempt.ProofReference)
	assert.Equal(t, ref, *attempt.ProofReference)
	assert.False(t, attempt.AwaitingReview())

	for _, viewer := range []string{"p1", "giver"} {
		got, err := f.svc.EvidenceReference(ctx, viewer, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestReview_CannotReviewOwnSubmission(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "giver", domain.RoleQuestGiver)
	q := f.quest(t, domain.Quest{
		Title:       "Workshop",
		XPReward:    90,
		Requirement: domain.ManualRequirement{Instructions: "Attend the workshop"},
	})
	_, err := f.svc.Accept(ctx, "giver", q.ID)
	require.NoError(t, err)
	pending, err := f.svc.SubmitCompletion(ctx, "giver", q.ID, domain.SubmittedProof{})
	require.NoError(t, err)

	// ACT
	_, err = f.svc.Review(ctx, "giver", pending.AttemptID, true, "")

	// ASSERT
	assert.ErrorIs(t, err, domain.ErrForbidden)
	attempt, _ := f.store.GetAttemptByID(ctx, pending.AttemptID)
	assert.Equal(t, domain.AttemptStatusInProgress, attempt.Status)
	assert.True(t, attempt.AwaitingReview())
	profile, _ := f.store.GetProfile(ctx, "giver")
	assert.Zero(t, profile.XP)
}

func TestReview_NotApplicableToAutomaticQuests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "gm", domain.RoleGameMaster)
	q := f.quest(t, qrQuest())
	attempt, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, "gm", attempt.ID, true, "")

	assert.ErrorIs(t, err, domain.ErrReviewNotApplicable)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "gm", domain.RoleGameMaster)
	valid := CreateQuestInput{
		Title:        "Campus Tour",
		Difficulty:   domain.DifficultyRare,
		XPReward:     100,
		Requirement:  domain.GPSRequirement{Latitude: 14.6, Longitude: 121.0, RadiusMeters: 25},
		TargetGuilds: []string{"COE"},
	}

	_, err := f.svc.Create(ctx, "p1", valid)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tests := []struct {
		name   string
		mutate func(in *CreateQuestInput)
		want   error
	}{
		{"empty title", func(in *CreateQuestInput) { in.Title = " " }, domain.ErrInvalidInput},
		{"bad difficulty", func(in *CreateQuestInput) { in.Difficulty = "mythic" }, domain.ErrInvalidInput},
		{"negative reward", func(in *CreateQuestInput) { in.GoldReward = -1 }, domain.ErrInvalidInput},
		{"zero radius", func(in *CreateQuestInput) { in.Requirement = domain.GPSRequirement{} }, domain.ErrInvalidInput},
		{"unknown guild", func(in *CreateQuestInput) { in.TargetGuilds = []string{"XYZ"} }, domain.ErrUnknownGuild},
		{"window reversed", func(in *CreateQuestInput) {
			past := f.now.Add(-time.Hour)
			in.ExpiresAt = &past
		}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.Create(ctx, "gm", in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	created, err := f.svc.Create(ctx, "gm", valid)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "gm", created.CreatedBy)

	coe, err := f.svc.ListAvailable(ctx, domain.QuestFilter{Guild: "COE"})
	require.NoError(t, err)
	require.Len(t, coe, 1)
	cas, err := f.svc.ListAvailable(ctx, domain.QuestFilter{Guild: "CAS"})
	require.NoError(t, err)
	assert.Empty(t, cas)
}

func TestHistory_Totals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	done := f.quest(t, qrQuest())
	open := f.quest(t, domain.Quest{Title: "Pending", Requirement: domain.QRCodeRequirement{Code: "Z"}})

	_, err := f.svc.Accept(ctx, "p1", done.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitCompletion(ctx, "p1", done.ID, domain.SubmittedProof{Code: "ABC123"})
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, "p1", open.ID)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, "p1")

	require.NoError(t, err)
	assert.Len(t, history.Attempts, 2)
	assert.Equal(t, 1, history.Totals.Completed)
	assert.Equal(t, 1, history.Totals.InProgress)
	assert.Equal(t, int64(100), history.Totals.XPEarned)
	assert.Equal(t, int64(50), history.Totals.GoldEarned)
}

func TestEvidenceReference_Access(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	f := newFixture(t)
	f.participant(t, "p1", domain.RolePlayer)
	f.participant(t, "p2", domain.RolePlayer)
	f.participant(t, "giver", domain.RoleQuestGiver)
	q := f.quest(t, domain.Quest{
		Title:       "Seminar",
		XPReward:    50,
		Requirement: domain.ManualRequirement{Instructions: "Show your certificate"},
	})
	attempt, err := f.svc.Accept(ctx, "p1", q.ID)
	require.NoError(t, err)

	_, err = f.svc.EvidenceReference(ctx, "p1", attempt.ID)
	require.ErrorIs(t, err, domain.ErrNotFound, "nothing submitted yet")

	const ref = "evidence/p1/cert.jpg"
	_, err = f.svc.SubmitCompletion(ctx, "p1", q.ID, domain.SubmittedProof{ProofReference: ref})
	require.NoError(t, err)

	tests := []struct {
		name    string
		viewer  string
		wantErr error
	}{
		{"owner", "p1", nil},
		{"reviewer", "giver", nil},
		{"other player", "p2", domain.ErrForbidden},
		{"unknown viewer", "ghost", domain.ErrParticipantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ACT
			got, err := f.svc.EvidenceReference(ctx, tt.viewer, attempt.ID)

			// ASSERT
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ref, got)
		})
	}

	_, err = f.svc.EvidenceReference(ctx, "p1", "missing-attempt")
	assert.ErrorIs(t, err, domain.ErrAttemptNotFound)
}
