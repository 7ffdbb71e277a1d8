package postgres

import (
	"context"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

func (s *Store) ListNotifications(ctx context.Context, participantID string, limit int) ([]domain.Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, participant_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE participant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, participantID, limitArg(limit))
	if err != nil {
		return nil, queryErr("list notifications", err, nil)
	}
	defer rows.Close()

	items := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			n     domain.Notification
			nType string
		)
		if err := rows.Scan(&n.ID, &n.ParticipantID, &n.Title, &n.Message, &nType, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, queryErr("scan notification", err, nil)
		}
		n.Type = domain.NotificationType(nType)
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list notifications", err, nil)
	}
	return items, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, participantID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE participant_id = $1 AND NOT is_read`, participantID).Scan(&n)
	if err != nil {
		return 0, queryErr("count unread notifications", err, nil)
	}
	return n, nil
}

func (s *Store) MarkNotificationsRead(ctx context.Context, participantID string, ids []string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE participant_id = $1 AND id = ANY($2) AND NOT is_read`, participantID, ids)
	if err != nil {
		return 0, queryErr("mark notifications read", err, nil)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, participantID string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE participant_id = $1 AND NOT is_read`, participantID)
	if err != nil {
		return 0, queryErr("mark all notifications read", err, nil)
	}
	return tag.RowsAffected(), nil
}
