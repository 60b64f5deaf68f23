package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "healthmate/internal/pkg/chat/application/domain"
)

// rowStub plays a pgx.Row for one fixture row. Like pgx, it refuses to scan
// NULL into a plain destination, so a nullable column paired with the wrong
// destination type fails here the same way it would against the database.
type rowStub struct{ vals []any }

func (r rowStub) Scan(dest ...any) error {
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.vals))
	}
	for i, v := range r.vals {
		if err := assignValue(dest[i], v); err != nil {
			return fmt.Errorf("scan: column %d: %w", i, err)
		}
	}
	return nil
}

func assignValue(dest, v any) error {
	if ts, ok := dest.(*pgtype.Timestamptz); ok {
		if v == nil {
			*ts = pgtype.Timestamptz{}
			return nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot scan %T into %T", v, dest)
		}
		*ts = pgtype.Timestamptz{Time: t, Valid: true}
		return nil
	}
	if v == nil {
		if b, ok := dest.(*[]byte); ok {
			*b = nil
			return nil
		}
		return errors.New("cannot scan NULL")
	}
	dv := reflect.ValueOf(dest).Elem()
	sv := reflect.ValueOf(v)
	if !sv.Type().ConvertibleTo(dv.Type()) {
		return fmt.Errorf("cannot scan %T into %T", v, dest)
	}
	dv.Set(sv.Convert(dv.Type()))
	return nil
}

// A conversation that exists but has never carried a message has
// last_message_at IS NULL. That row shape comes straight out of
// FindOrCreateDirect on the first patient message and out of listings for a
// freshly created group, so the scan must tolerate it.
func TestScanConversation_FreshRowWithoutMessages(t *testing.T) {
	now := time.Now()
	row := rowStub{vals: []any{
		"c1", "direct",
		"p1", "d1",
		"", "",
		"", nil, int64(0),
		now, now, false,
	}}

	c, err := scanConversation(row)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, chat.KindDirect, c.Kind)
	assert.True(t, c.LastMessageAt.IsZero())
	assert.Equal(t, int64(0), c.LastSeq)
	assert.False(t, c.Destroyed)
}

func TestScanConversation_RowWithMessages(t *testing.T) {
	now := time.Now()
	lastAt := now.Add(-time.Minute)
	row := rowStub{vals: []any{
		"c2", "group",
		"", "",
		"Care Team", "d1",
		"See you tomorrow", lastAt, int64(7),
		now, now, false,
	}}

	c, err := scanConversation(row)
	require.NoError(t, err)

	assert.Equal(t, chat.KindGroup, c.Kind)
	assert.Equal(t, "See you tomorrow", c.LastMessage)
	assert.True(t, c.LastMessageAt.Equal(lastAt))
	assert.Equal(t, int64(7), c.LastSeq)
}

func TestScanMessage_DecodesAttachments(t *testing.T) {
	now := time.Now()
	atts := []byte(`[{"type":"file","url":"https://files.example/scan.pdf","filename":"scan.pdf","mimeType":"application/pdf","size":2048}]`)
	row := rowStub{vals: []any{
		"m1", "c1", "u1", "patient",
		"", atts, "sent", false, int64(1), now,
	}}

	m, err := scanMessage(row)
	require.NoError(t, err)

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, chat.StatusSent, m.Status)
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "https://files.example/scan.pdf", m.Attachments[0].URL)
	assert.Equal(t, int64(1), m.Seq)
}
