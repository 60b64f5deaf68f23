package adapter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	chat "healthmate/internal/pkg/chat/application/domain"
)

// PgConversationRepository persists conversation records in postgres.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

const conversationColumns = `
	c.id::text, c.kind,
	COALESCE(c.patient_id::text, ''), COALESCE(c.doctor_id::text, ''),
	COALESCE(c.group_name, ''), COALESCE(c.created_by::text, ''),
	c.last_message, c.last_message_at, c.last_seq,
	c.created_at, c.updated_at, c.destroyed`

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var (
		c      chat.Conversation
		lastAt pgtype.Timestamptz
	)
	err := row.Scan(
		&c.ID, &c.Kind,
		&c.PatientID, &c.DoctorID,
		&c.GroupName, &c.CreatedBy,
		&c.LastMessage, &lastAt, &c.LastSeq,
		&c.CreatedAt, &c.UpdatedAt, &c.Destroyed,
	)
	if err != nil {
		return nil, err
	}
	// last_message_at stays NULL until the first append; the zero time stands
	// in for it on the domain side.
	c.LastMessageAt = lastAt.Time
	return &c, nil
}

// FindOrCreateDirect inserts the direct conversation or returns the live row
// for the pair. Uniqueness rides on the partial unique index over
// (patient_id, doctor_id) for non-destroyed direct conversations, so two
// concurrent calls converge on one row. xmax = 0 distinguishes a fresh insert
// from a conflict hit.
func (r *PgConversationRepository) FindOrCreateDirect(ctx context.Context, patientID, doctorID string) (*chat.Conversation, bool, error) {
	wrapMsg := "unable to find or create direct conversation"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		c       chat.Conversation
		lastAt  pgtype.Timestamptz
		created bool
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (kind, patient_id, doctor_id)
		VALUES ('direct', $1::uuid, $2::uuid)
		ON CONFLICT (patient_id, doctor_id) WHERE kind = 'direct' AND NOT destroyed
		DO UPDATE SET updated_at = chat.conversation.updated_at
		RETURNING id::text, last_message, last_message_at, last_seq, created_at, updated_at, (xmax = 0)
	`, patientID, doctorID).Scan(
		&c.ID, &c.LastMessage, &lastAt, &c.LastSeq, &c.CreatedAt, &c.UpdatedAt, &created,
	)
	if err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}
	c.LastMessageAt = lastAt.Time

	c.Kind = chat.KindDirect
	c.PatientID = patientID
	c.DoctorID = doctorID
	c.Participants = []chat.Participant{
		{UserID: patientID, Role: chat.RolePatient},
		{UserID: doctorID, Role: chat.RoleDoctor},
	}

	if created {
		for _, p := range c.Participants {
			_, err = tx.Exec(ctx, `
				INSERT INTO chat.participant (conversation_id, user_id, role)
				VALUES ($1::uuid, $2::uuid, $3)
				ON CONFLICT (conversation_id, user_id) DO NOTHING
			`, c.ID, p.UserID, p.Role)
			if err != nil {
				return nil, false, errors.Wrap(err, wrapMsg)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}
	return &c, created, nil
}

// CreateGroup persists the conversation row and its participant list in one
// transaction and returns the store-assigned ID.
func (r *PgConversationRepository) CreateGroup(ctx context.Context, c *chat.Conversation) (string, error) {
	wrapMsg := "unable to create group conversation"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (kind, group_name, created_by)
		VALUES ('group', $1, $2::uuid)
		RETURNING id::text
	`, c.GroupName, c.CreatedBy).Scan(&id)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	for _, p := range c.Participants {
		_, err = tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id, role)
			VALUES ($1::uuid, $2::uuid, $3)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, id, p.UserID, p.Role)
		if err != nil {
			return "", errors.Wrap(err, wrapMsg)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	return id, nil
}

func (r *PgConversationRepository) FindByID(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	wrapMsg := "unable to look up conversation"

	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		WHERE c.id = $1::uuid AND NOT c.destroyed
	`, conversationID)
	c, err := scanConversation(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if err := r.loadParticipants(ctx, []*chat.Conversation{c}); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return c, nil
}

func (r *PgConversationRepository) ListForDoctor(ctx context.Context, doctorID string) ([]chat.Conversation, error) {
	return r.listForUser(ctx, doctorID)
}

func (r *PgConversationRepository) ListForPatient(ctx context.Context, patientID string) ([]chat.Conversation, error) {
	return r.listForUser(ctx, patientID)
}

// listForUser returns direct conversations and groups alike: membership is a
// participant row for both variants, so one query covers the union.
func (r *PgConversationRepository) listForUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	wrapMsg := "unable to list conversations"

	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		JOIN chat.participant p ON p.conversation_id = c.id
		WHERE p.user_id = $1::uuid AND NOT c.destroyed
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	var convs []*chat.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), wrapMsg)
	}

	if err := r.loadParticipants(ctx, convs); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return lo.Map(convs, func(c *chat.Conversation, _ int) chat.Conversation { return *c }), nil
}

func (r *PgConversationRepository) RemoveParticipant(ctx context.Context, conversationID, userID string) error {
	wrapMsg := "unable to remove participant"

	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE chat.conversation SET updated_at = now() WHERE id = $1::uuid
	`, conversationID)
	return errors.Wrap(err, wrapMsg)
}

func (r *PgConversationRepository) loadParticipants(ctx context.Context, convs []*chat.Conversation) error {
	if len(convs) == 0 {
		return nil
	}
	ids := lo.Map(convs, func(c *chat.Conversation, _ int) string { return c.ID })

	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, user_id::text, role
		FROM chat.participant
		WHERE conversation_id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byConv := make(map[string][]chat.Participant, len(convs))
	for rows.Next() {
		var (
			convID string
			p      chat.Participant
		)
		if err := rows.Scan(&convID, &p.UserID, &p.Role); err != nil {
			return err
		}
		byConv[convID] = append(byConv[convID], p)
	}
	if rows.Err() != nil {
		return rows.Err()
	}

	for _, c := range convs {
		c.Participants = byConv[c.ID]
	}
	return nil
}
