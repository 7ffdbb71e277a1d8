package postgres

import (
	"context"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

func (s *Store) ListUnlocks(ctx context.Context, participantID string) ([]domain.AchievementUnlock, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT participant_id, achievement_key, unlocked_at
		FROM achievement_unlocks
		WHERE participant_id = $1
		ORDER BY unlocked_at, achievement_key`, participantID)
	if err != nil {
		return nil, queryErr("list unlocks", err, nil)
	}
	defer rows.Close()

	unlocks := make([]domain.AchievementUnlock, 0)
	for rows.Next() {
		var u domain.AchievementUnlock
		if err := rows.Scan(&u.ParticipantID, &u.AchievementKey, &u.UnlockedAt); err != nil {
			return nil, queryErr("scan unlock", err, nil)
		}
		unlocks = append(unlocks, u)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list unlocks", err, nil)
	}
	return unlocks, nil
}

// ---- Leaderboard ----

func (s *Store) GetGuildStandings(ctx context.Context) ([]domain.GuildStanding, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT guild, SUM(xp)::bigint, COUNT(*)::int, AVG(level)::float8
		FROM participants
		WHERE guild <> ''
		GROUP BY guild
		ORDER BY SUM(xp) DESC, guild`)
	if err != nil {
		return nil, queryErr("get guild standings", err, nil)
	}
	defer rows.Close()

	standings := make([]domain.GuildStanding, 0)
	for rows.Next() {
		var st domain.GuildStanding
		if err := rows.Scan(&st.Guild, &st.TotalXP, &st.TotalMembers, &st.AverageLevel); err != nil {
			return nil, queryErr("scan guild standing", err, nil)
		}
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("get guild standings", err, nil)
	}
	return standings, nil
}

func (s *Store) GetTopPlayers(ctx context.Context, guild string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, display_name, guild, xp, level
		FROM participants
		WHERE $1::text = '' OR guild = $1
		ORDER BY xp DESC, id
		LIMIT $2`, guild, limitArg(limit))
	if err != nil {
		return nil, queryErr("get top players", err, nil)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.ParticipantID, &e.DisplayName, &e.Guild, &e.XP, &e.Level); err != nil {
			return nil, queryErr("scan leaderboard entry", err, nil)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("get top players", err, nil)
	}
	return entries, nil
}

// ---- Stats ----

func (s *Store) CountCompletedAttempts(ctx context.Context, participantID string) (int, error) {
	return countCompleted(ctx, s.pool, participantID)
}

func countCompleted(ctx context.Context, q querier, participantID string) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM quest_attempts WHERE participant_id = $1 AND status = $2`,
		participantID, statusCompleted).Scan(&n)
	if err != nil {
		return 0, queryErr("count completed attempts", err, nil)
	}
	return n, nil
}

func (s *Store) CountUnlockedAchievements(ctx context.Context, participantID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM achievement_unlocks WHERE participant_id = $1`, participantID).Scan(&n)
	if err != nil {
		return 0, queryErr("count unlocked achievements", err, nil)
	}
	return n, nil
}
