package adapter

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	chat "healthmate/internal/pkg/chat/application/domain"
)

// PgMessageRepository persists the per-conversation message log.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Append runs in one transaction. The conversation row is updated first, which
// takes its row lock, serializes concurrent sends, assigns the next sequence
// number, and advances the last-message preview under that lock so a slower
// send cannot overwrite a newer preview.
func (r *PgMessageRepository) Append(ctx context.Context, m *chat.Message) (*chat.Message, error) {
	wrapMsg := "unable to append message"

	attachments, err := json.Marshal(m.Attachments)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := *m
	err = tx.QueryRow(ctx, `
		UPDATE chat.conversation
		SET last_seq = last_seq + 1,
		    last_message = $2,
		    last_message_at = now(),
		    updated_at = now()
		WHERE id = $1::uuid AND NOT destroyed
		RETURNING last_seq
	`, m.ConversationID, m.Preview()).Scan(&saved.Seq)
	if err == pgx.ErrNoRows {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, sender_role, content, attachments, status, read, seq)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5::jsonb, $6, $7, $8)
		RETURNING id::text, created_at
	`, m.ConversationID, m.SenderID, m.SenderRole, m.Content, attachments, m.Status, m.Read, saved.Seq).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &saved, nil
}

const messageColumns = `
	id::text, conversation_id::text, sender_id::text, sender_role,
	content, attachments, status, read, seq, created_at`

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var (
		m    chat.Message
		atts []byte
	)
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.SenderRole,
		&m.Content, &atts, &m.Status, &m.Read, &m.Seq, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(atts) > 0 {
		if err := json.Unmarshal(atts, &m.Attachments); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// ListByConversation returns messages ordered by sequence; created_at ties at
// sub-millisecond granularity cannot reorder the log.
func (r *PgMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]chat.Message, error) {
	wrapMsg := "unable to list messages"

	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM chat.message
		WHERE conversation_id = $1::uuid AND NOT destroyed
		ORDER BY seq ASC
	`, conversationID)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		msgs = append(msgs, *m)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), wrapMsg)
	}
	return msgs, nil
}

func (r *PgMessageRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	wrapMsg := "unable to mark messages read"

	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read = true
		WHERE conversation_id = $1::uuid
		  AND sender_id <> $2::uuid
		  AND NOT read AND NOT destroyed
	`, conversationID, userID)
	return errors.Wrap(err, wrapMsg)
}

// MarkSeen is the status state machine transition. The WHERE status = 'sent'
// guard makes it idempotent and keeps the status monotonic: a repeat call
// matches no rows and returns an empty set.
func (r *PgMessageRepository) MarkSeen(ctx context.Context, conversationID, userID string) ([]chat.Message, error) {
	wrapMsg := "unable to mark messages seen"

	rows, err := r.pool.Query(ctx, `
		UPDATE chat.message
		SET status = 'seen', read = true
		WHERE conversation_id = $1::uuid
		  AND sender_id <> $2::uuid
		  AND status = 'sent' AND NOT destroyed
		RETURNING `+messageColumns+`
	`, conversationID, userID)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	var changed []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		changed = append(changed, *m)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), wrapMsg)
	}
	return changed, nil
}

func (r *PgMessageRepository) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	wrapMsg := "unable to count unread messages"

	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM chat.message
		WHERE conversation_id = $1::uuid
		  AND sender_id <> $2::uuid
		  AND NOT read AND NOT destroyed
	`, conversationID, userID).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return total, nil
}
