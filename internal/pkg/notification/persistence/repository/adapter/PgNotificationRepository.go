package adapter

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	notification "healthmate/internal/pkg/notification/application/domain"
)

// PgNotificationRepository persists notifications in postgres. Deep links and
// meta references are stored as jsonb.
type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	wrapMsg := "unable to save notification"

	var (
		deepLink []byte
		meta     []byte
		err      error
	)
	if n.DeepLink != nil {
		if deepLink, err = json.Marshal(n.DeepLink); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
	}
	if n.Meta != nil {
		if meta, err = json.Marshal(n.Meta); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
	}

	saved := *n
	err = r.pool.QueryRow(ctx, `
		INSERT INTO app.notification (user_id, type, title, description, is_read, role, deep_link, meta)
		VALUES ($1::uuid, $2, $3, $4, $5, NULLIF($6, ''), $7::jsonb, $8::jsonb)
		RETURNING id::text, created_at
	`, n.UserID, n.Type, n.Title, n.Description, n.IsRead, n.Role, deepLink, meta).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &saved, nil
}

const notificationColumns = `
	id::text, user_id::text, type, title, description, is_read,
	COALESCE(role, ''), deep_link, meta, created_at`

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n        notification.Notification
		deepLink []byte
		meta     []byte
	)
	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Description, &n.IsRead,
		&n.Role, &deepLink, &meta, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(deepLink) > 0 {
		if err := json.Unmarshal(deepLink, &n.DeepLink); err != nil {
			return nil, err
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &n.Meta); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

func (r *PgNotificationRepository) FindByID(ctx context.Context, id, userID string) (*notification.Notification, error) {
	wrapMsg := "unable to look up notification"

	row := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM app.notification
		WHERE id = $1::uuid AND user_id = $2::uuid AND NOT destroyed
	`, id, userID)
	n, err := scanNotification(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return n, nil
}

func (r *PgNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	wrapMsg := "unable to list notifications"

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM app.notification
		WHERE user_id = $1::uuid AND NOT destroyed
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	var out []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		out = append(out, *n)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), wrapMsg)
	}
	return out, nil
}

func (r *PgNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	wrapMsg := "unable to count unread notifications"

	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM app.notification
		WHERE user_id = $1::uuid AND NOT is_read AND NOT destroyed
	`, userID).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return total, nil
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	wrapMsg := "unable to mark notification read"

	ct, err := r.pool.Exec(ctx, `
		UPDATE app.notification
		SET is_read = true
		WHERE id = $1::uuid AND user_id = $2::uuid AND NOT destroyed
	`, id, userID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	wrapMsg := "unable to mark notifications read"

	_, err := r.pool.Exec(ctx, `
		UPDATE app.notification
		SET is_read = true
		WHERE user_id = $1::uuid AND NOT is_read AND NOT destroyed
	`, userID)
	return errors.Wrap(err, wrapMsg)
}

func (r *PgNotificationRepository) Delete(ctx context.Context, id, userID string) error {
	wrapMsg := "unable to delete notification"

	ct, err := r.pool.Exec(ctx, `
		UPDATE app.notification
		SET destroyed = true
		WHERE id = $1::uuid AND user_id = $2::uuid AND NOT destroyed
	`, id, userID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
