package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

const profileColumns = `id, display_name, email, guild, role, xp, gold, level,
	activity_streak, last_active_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.ParticipantProfile, error) {
	var p domain.ParticipantProfile
	err := row.Scan(&p.ID, &p.DisplayName, &p.Email, &p.Guild, &p.Role, &p.XP, &p.Gold, &p.Level,
		&p.ActivityStreak, &p.LastActiveAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile creates the profile or refreshes its identity fields. Progress
// columns are never touched on conflict.
func (s *Store) UpsertProfile(ctx context.Context, profile *domain.ParticipantProfile) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO participants (id, display_name, email, guild, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email        = EXCLUDED.email,
			guild        = EXCLUDED.guild,
			role         = EXCLUDED.role,
			updated_at   = NOW()
		RETURNING `+profileColumns,
		profile.ID, profile.DisplayName, profile.Email, profile.Guild, string(profile.Role))

	stored, err := scanProfile(row)
	if err != nil {
		return queryErr("upsert participant", err, nil)
	}
	*profile = *stored
	return nil
}

func (s *Store) GetProfile(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	return getProfile(ctx, s.pool, participantID, false)
}

func getProfile(ctx context.Context, q querier, participantID string, forUpdate bool) (*domain.ParticipantProfile, error) {
	sql := `SELECT ` + profileColumns + ` FROM participants WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	p, err := scanProfile(q.QueryRow(ctx, sql, participantID))
	if err != nil {
		return nil, queryErr("get participant", err, domain.ErrParticipantNotFound)
	}
	return p, nil
}

// nullableTime stores a zero time as NULL
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
