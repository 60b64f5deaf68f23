package adapter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"healthmate/internal/pkg/directory/port"
)

// PgDirectory reads user display data and patient-doctor assignments from the
// shared platform tables. This core never writes them.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ port.Directory = (*PgDirectory)(nil)

func (d *PgDirectory) Lookup(ctx context.Context, userID string) (*port.UserInfo, error) {
	wrapMsg := "unable to look up user"

	var info port.UserInfo
	err := d.pool.QueryRow(ctx, `
		SELECT id::text,
		       COALESCE(NULLIF(display_name, ''), user_name),
		       COALESCE(avatar, ''),
		       COALESCE(specialty, '')
		FROM app.users
		WHERE id = $1::uuid
	`, userID).Scan(&info.ID, &info.Name, &info.Avatar, &info.Specialty)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &info, nil
}

func (d *PgDirectory) AssignedDoctor(ctx context.Context, patientID string) (string, error) {
	wrapMsg := "unable to look up assigned doctor"

	var doctorID string
	err := d.pool.QueryRow(ctx, `
		SELECT doctor_id::text
		FROM app.patient_doctor
		WHERE patient_id = $1::uuid
	`, patientID).Scan(&doctorID)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	return doctorID, nil
}
