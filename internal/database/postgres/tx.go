package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// tx implements every repository transaction interface on one pgx.Tx.
// Guarded writes are single conditional statements, so two transactions
// racing on the same row cannot both pass the guard.
type tx struct {
	tx pgx.Tx
}

var (
	_ repository.QuestTx   = (*tx)(nil)
	_ repository.EconomyTx = (*tx)(nil)
)

func (t *tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return domain.ErrTxClosed
		}
		return err
	}
	return nil
}

// ---- Journal ----

func (t *tx) InsertActivity(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeFailed, "activity metadata", err)
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO activity_log (id, participant_id, action_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()))`,
		entry.ID, entry.ParticipantID, entry.ActionType, raw, nullableTime(entry.CreatedAt))
	if err != nil {
		return queryErr("insert activity", err, nil)
	}
	return nil
}

func (t *tx) InsertNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO notifications (id, participant_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::timestamptz, NOW()))`,
		n.ID, n.ParticipantID, n.Title, n.Message, string(n.Type), n.IsRead, nullableTime(n.CreatedAt))
	if err != nil {
		return queryErr("insert notification", err, nil)
	}
	return nil
}

// ---- Progress ----

func (t *tx) GetProfileForUpdate(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	return getProfile(ctx, t.tx, participantID, true)
}

func (t *tx) UpdateProfile(ctx context.Context, participantID string, update domain.ProfileUpdate) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE participants SET
			xp = $2, gold = $3, level = $4, activity_streak = $5, last_active_at = $6, updated_at = NOW()
		WHERE id = $1`,
		participantID, update.XP, update.Gold, update.Level, update.ActivityStreak, nullableTime(update.LastActiveAt))
	if err != nil {
		return queryErr("update participant", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (t *tx) CountCompletedAttempts(ctx context.Context, participantID string) (int, error) {
	return countCompleted(ctx, t.tx, participantID)
}

func (t *tx) GetCompletionTimes(ctx context.Context, participantID string) ([]time.Time, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT completed_at FROM quest_attempts
		WHERE participant_id = $1 AND status = $2 AND completed_at IS NOT NULL
		ORDER BY completed_at`, participantID, statusCompleted)
	if err != nil {
		return nil, queryErr("get completion times", err, nil)
	}
	times, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, queryErr("get completion times", err, nil)
	}
	return times, nil
}

func (t *tx) GetUnlockedAchievementKeys(ctx context.Context, participantID string) (map[string]struct{}, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT achievement_key FROM achievement_unlocks WHERE participant_id = $1`, participantID)
	if err != nil {
		return nil, queryErr("get unlocked achievements", err, nil)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, queryErr("get unlocked achievements", err, nil)
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (t *tx) InsertAchievementUnlock(ctx context.Context, unlock domain.AchievementUnlock) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO achievement_unlocks (participant_id, achievement_key, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_id, achievement_key) DO NOTHING`,
		unlock.ParticipantID, unlock.AchievementKey, unlock.UnlockedAt)
	if err != nil {
		return false, queryErr("insert achievement unlock", err, nil)
	}
	return tag.RowsAffected() == 1, nil
}

// ---- Quests ----

func (t *tx) IncrementParticipants(ctx context.Context, questID string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE quests SET current_participants = current_participants + 1
		WHERE id = $1 AND (max_participants IS NULL OR current_participants < max_participants)`, questID)
	if err != nil {
		return queryErr("increment participants", err, nil)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	exists, err := t.exists(ctx, `SELECT EXISTS (SELECT 1 FROM quests WHERE id = $1)`, questID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrQuestNotFound
	}
	return domain.ErrQuestFull
}

func (t *tx) InsertAttempt(ctx context.Context, attempt *domain.QuestAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	status := attempt.Status
	if status == "" {
		status = domain.AttemptStatusInProgress
	}
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO quest_attempts (id, participant_id, quest_id, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (participant_id, quest_id) DO NOTHING`,
		attempt.ID, attempt.ParticipantID, attempt.QuestID, string(status), attempt.StartedAt)
	if err != nil {
		return queryErr("insert attempt", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyAccepted
	}
	return nil
}

func (t *tx) GetAttemptForUpdate(ctx context.Context, attemptID string) (*domain.QuestAttempt, error) {
	return getAttempt(ctx, t.tx, attemptID, true)
}

func (t *tx) SubmitProof(ctx context.Context, attemptID string, proofReference *string, submittedAt time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE quest_attempts SET proof_reference = $2, submitted_at = $3
		WHERE id = $1 AND status = $4`, attemptID, proofReference, submittedAt, statusInProgress)
	if err != nil {
		return queryErr("submit proof", err, nil)
	}
	return t.guardResult(ctx, tag.RowsAffected(), attemptID)
}

func (t *tx) CompleteAttempt(ctx context.Context, attemptID string, completion domain.AttemptCompletion) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE quest_attempts SET
			status          = $2,
			completed_at    = $3,
			xp_awarded      = $4,
			gold_awarded    = $5,
			reviewer_id     = COALESCE($6, reviewer_id),
			reviewed_at     = COALESCE($7, reviewed_at),
			proof_reference = COALESCE($8, proof_reference)
		WHERE id = $1 AND status = $9`,
		attemptID, statusCompleted, completion.CompletedAt, completion.XPAwarded, completion.GoldAwarded,
		completion.ReviewerID, completion.ReviewedAt, completion.ProofReference, statusInProgress)
	if err != nil {
		return queryErr("complete attempt", err, nil)
	}
	return t.guardResult(ctx, tag.RowsAffected(), attemptID)
}

func (t *tx) RejectSubmission(ctx context.Context, attemptID, reviewerID string, reviewedAt time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE quest_attempts SET proof_reference = NULL, submitted_at = NULL, reviewer_id = $2, reviewed_at = $3
		WHERE id = $1 AND status = $4`, attemptID, reviewerID, reviewedAt, statusInProgress)
	if err != nil {
		return queryErr("reject submission", err, nil)
	}
	return t.guardResult(ctx, tag.RowsAffected(), attemptID)
}

// guardResult tells a missing attempt apart from one no longer in progress
func (t *tx) guardResult(ctx context.Context, affected int64, attemptID string) error {
	if affected == 1 {
		return nil
	}
	exists, err := t.exists(ctx, `SELECT EXISTS (SELECT 1 FROM quest_attempts WHERE id = $1)`, attemptID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAttemptNotFound
	}
	return domain.ErrAttemptNotActive
}

// ---- Economy ----

// DebitGold is a single check-and-decrement. On refusal it returns the current balance.
func (t *tx) DebitGold(ctx context.Context, participantID string, amount int64) (int64, error) {
	var remaining int64
	err := t.tx.QueryRow(ctx, `
		UPDATE participants SET gold = gold - $2, updated_at = NOW()
		WHERE id = $1 AND gold >= $2
		RETURNING gold`, participantID, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, queryErr("debit gold", err, nil)
	}

	var balance int64
	err = t.tx.QueryRow(ctx, `SELECT gold FROM participants WHERE id = $1`, participantID).Scan(&balance)
	if err != nil {
		return 0, queryErr("read balance", err, domain.ErrParticipantNotFound)
	}
	return balance, domain.ErrInsufficientFunds
}

func (t *tx) exists(ctx context.Context, sql string, args ...any) (bool, error) {
	var ok bool
	if err := t.tx.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, queryErr("check existence", err, nil)
	}
	return ok, nil
}
