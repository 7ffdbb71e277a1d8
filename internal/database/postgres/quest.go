package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

const questColumns = `id, title, description, difficulty, xp_reward, gold_reward, requirement,
	starts_at, expires_at, max_participants, current_participants, target_guilds,
	is_active, created_by, created_at`

const attemptColumns = `id, participant_id, quest_id, status, started_at, completed_at,
	proof_reference, submitted_at, reviewer_id, reviewed_at, xp_awarded, gold_awarded`

func scanQuest(row pgx.Row) (*domain.Quest, error) {
	var (
		q           domain.Quest
		difficulty  string
		requirement []byte
		createdBy   *string
	)
	err := row.Scan(&q.ID, &q.Title, &q.Description, &difficulty, &q.XPReward, &q.GoldReward, &requirement,
		&q.StartsAt, &q.ExpiresAt, &q.MaxParticipants, &q.CurrentParticipants, &q.TargetGuilds,
		&q.IsActive, &createdBy, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.Difficulty = domain.Difficulty(difficulty)
	if createdBy != nil {
		q.CreatedBy = *createdBy
	}
	if q.Requirement, err = domain.UnmarshalRequirement(requirement); err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeQuestFailed, q.ID, err)
	}
	return &q, nil
}

func scanAttempt(row pgx.Row, extra ...any) (*domain.QuestAttempt, error) {
	var (
		a      domain.QuestAttempt
		status string
	)
	dest := append([]any{&a.ID, &a.ParticipantID, &a.QuestID, &status, &a.StartedAt, &a.CompletedAt,
		&a.ProofReference, &a.SubmittedAt, &a.ReviewerID, &a.ReviewedAt, &a.XPAwarded, &a.GoldAwarded}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.Status = domain.AttemptStatus(status)
	return &a, nil
}

func (s *Store) GetQuest(ctx context.Context, questID string) (*domain.Quest, error) {
	q, err := scanQuest(s.pool.QueryRow(ctx, `SELECT `+questColumns+` FROM quests WHERE id = $1`, questID))
	if err != nil {
		return nil, queryErr("get quest", err, domain.ErrQuestNotFound)
	}
	return q, nil
}

func (s *Store) ListActiveQuests(ctx context.Context, now time.Time, filter domain.QuestFilter) ([]domain.Quest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+questColumns+`
		FROM quests
		WHERE is_active
		  AND starts_at <= $1
		  AND (expires_at IS NULL OR expires_at > $1)
		  AND ($2::text = '' OR difficulty = $2)
		  AND ($3::text = '' OR cardinality(target_guilds) = 0 OR $3 = ANY(target_guilds))
		ORDER BY created_at DESC, id`,
		now, string(filter.Difficulty), filter.Guild)
	if err != nil {
		return nil, queryErr("list active quests", err, nil)
	}
	defer rows.Close()

	quests := make([]domain.Quest, 0)
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, queryErr("scan quest", err, nil)
		}
		quests = append(quests, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list active quests", err, nil)
	}
	return quests, nil
}

func (s *Store) CreateQuest(ctx context.Context, quest *domain.Quest) error {
	if quest.ID == "" {
		quest.ID = uuid.New().String()
	}
	requirement, err := domain.MarshalRequirement(quest.Requirement)
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeFailed, "requirement", err)
	}
	targets := quest.TargetGuilds
	if targets == nil {
		targets = []string{}
	}
	var createdBy *string
	if quest.CreatedBy != "" {
		createdBy = &quest.CreatedBy
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO quests (id, title, description, difficulty, xp_reward, gold_reward, requirement,
			starts_at, expires_at, max_participants, target_guilds, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14::timestamptz, NOW()))
		RETURNING created_at`,
		quest.ID, quest.Title, quest.Description, string(quest.Difficulty), quest.XPReward, quest.GoldReward,
		requirement, quest.StartsAt, quest.ExpiresAt, quest.MaxParticipants, targets, quest.IsActive,
		createdBy, nullableTime(quest.CreatedAt),
	).Scan(&quest.CreatedAt)
	if err != nil {
		return queryErr("create quest", err, nil)
	}
	return nil
}

func (s *Store) GetAttempt(ctx context.Context, participantID, questID string) (*domain.QuestAttempt, error) {
	a, err := scanAttempt(s.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM quest_attempts WHERE participant_id = $1 AND quest_id = $2`,
		participantID, questID))
	if err != nil {
		return nil, queryErr("get attempt", err, domain.ErrAttemptNotFound)
	}
	return a, nil
}

func (s *Store) GetAttemptByID(ctx context.Context, attemptID string) (*domain.QuestAttempt, error) {
	return getAttempt(ctx, s.pool, attemptID, false)
}

func getAttempt(ctx context.Context, q querier, attemptID string, forUpdate bool) (*domain.QuestAttempt, error) {
	sql := `SELECT ` + attemptColumns + ` FROM quest_attempts WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	a, err := scanAttempt(q.QueryRow(ctx, sql, attemptID))
	if err != nil {
		return nil, queryErr("get attempt", err, domain.ErrAttemptNotFound)
	}
	return a, nil
}

func (s *Store) ListAttempts(ctx context.Context, participantID string) ([]domain.QuestAttempt, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+attemptColumns+`
		FROM quest_attempts
		WHERE participant_id = $1
		ORDER BY started_at DESC, id`, participantID)
	if err != nil {
		return nil, queryErr("list attempts", err, nil)
	}
	defer rows.Close()

	attempts := make([]domain.QuestAttempt, 0)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, queryErr("scan attempt", err, nil)
		}
		attempts = append(attempts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list attempts", err, nil)
	}
	return attempts, nil
}

func (s *Store) GetAttemptHistory(ctx context.Context, participantID string, limit int) ([]domain.AttemptHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.participant_id, a.quest_id, a.status, a.started_at, a.completed_at,
			a.proof_reference, a.submitted_at, a.reviewer_id, a.reviewed_at, a.xp_awarded, a.gold_awarded,
			q.title, q.difficulty, q.expires_at
		FROM quest_attempts a
		JOIN quests q ON q.id = a.quest_id
		WHERE a.participant_id = $1
		ORDER BY a.started_at DESC, a.id
		LIMIT $2`, participantID, limitArg(limit))
	if err != nil {
		return nil, queryErr("get attempt history", err, nil)
	}
	defer rows.Close()

	entries := make([]domain.AttemptHistoryEntry, 0)
	for rows.Next() {
		var (
			entry      domain.AttemptHistoryEntry
			difficulty string
		)
		a, err := scanAttempt(rows, &entry.QuestTitle, &difficulty, &entry.QuestExpiresAt)
		if err != nil {
			return nil, queryErr("scan attempt history", err, nil)
		}
		entry.QuestAttempt = *a
		entry.QuestDifficulty = domain.Difficulty(difficulty)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("get attempt history", err, nil)
	}
	return entries, nil
}
