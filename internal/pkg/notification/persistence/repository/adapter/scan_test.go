package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notification "healthmate/internal/pkg/notification/application/domain"
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
		if v == nil {
			if b, ok := dest[i].(*[]byte); ok {
				*b = nil
				continue
			}
			return fmt.Errorf("scan: column %d: %w", i, errors.New("cannot scan NULL"))
		}
		dv := reflect.ValueOf(dest[i]).Elem()
		sv := reflect.ValueOf(v)
		if !sv.Type().ConvertibleTo(dv.Type()) {
			return fmt.Errorf("scan: column %d: cannot scan %T into %T", i, v, dest[i])
		}
		dv.Set(sv.Convert(dv.Type()))
	}
	return nil
}

// Prediction and article notifications omit role, deep_link, and meta, so the
// stored row has all three nullable columns NULL (role reads back as '' via
// COALESCE). The scan must tolerate that shape.
func TestScanNotification_MinimalRow(t *testing.T) {
	now := time.Now()
	row := rowStub{vals: []any{
		"n1", "u1", "article", "New article for you",
		"A new article was published. Tap to read it.", false,
		"", nil, nil, now,
	}}

	n, err := scanNotification(row)
	require.NoError(t, err)

	assert.Equal(t, notification.TypeArticle, n.Type)
	assert.Empty(t, n.Role)
	assert.Nil(t, n.DeepLink)
	assert.Nil(t, n.Meta)
	assert.False(t, n.IsRead)
}

func TestScanNotification_DecodesDeepLinkAndMeta(t *testing.T) {
	now := time.Now()
	row := rowStub{vals: []any{
		"n2", "u1", "chat", "New message from Dr. Chen",
		"See you tomorrow", false,
		"patient",
		[]byte(`{"pathname":"/chat","query":{"conversationId":"c1"}}`),
		[]byte(`{"conversationId":"c1","senderId":"d1","senderName":"Dr. Chen"}`),
		now,
	}}

	n, err := scanNotification(row)
	require.NoError(t, err)

	require.NotNil(t, n.DeepLink)
	assert.Equal(t, "/chat", n.DeepLink.Pathname)
	assert.Equal(t, "c1", n.DeepLink.Query["conversationId"])
	assert.Equal(t, "Dr. Chen", n.Meta["senderName"])
	assert.Equal(t, "patient", n.Role)
}
