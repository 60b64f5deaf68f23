package realtime

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is an in-memory Session that records delivered frames.
type fakeSession struct {
	id     string
	userID string
	frames [][]byte
	fail   bool
}

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) UserID() string    { return s.userID }

func (s *fakeSession) Send(payload []byte) error {
	if s.fail {
		return io.ErrClosedPipe
	}
	s.frames = append(s.frames, payload)
	return nil
}

func (s *fakeSession) events(t *testing.T) []string {
	t.Helper()
	names := make([]string, 0, len(s.frames))
	for _, frame := range s.frames {
		var env struct {
			Event string `json:"event"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		names = append(names, env.Event)
	}
	return names
}

func newTestGateway() *Gateway {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGateway(logger)
}

func TestToUser_ReachesEverySessionOfThatUser(t *testing.T) {
	g := newTestGateway()
	tab1 := &fakeSession{id: "s1", userID: "alice"}
	tab2 := &fakeSession{id: "s2", userID: "alice"}
	other := &fakeSession{id: "s3", userID: "bob"}
	g.Attach(tab1)
	g.Attach(tab2)
	g.Attach(other)

	delivered := g.ToUser("alice", ConversationUpdated{ConversationID: "c1"})

	assert.Equal(t, 2, delivered)
	assert.Len(t, tab1.frames, 1)
	assert.Len(t, tab2.frames, 1)
	assert.Empty(t, other.frames)
}

func TestToRoom_OnlyJoinedSessionsReceive(t *testing.T) {
	g := newTestGateway()
	inRoom := &fakeSession{id: "s1", userID: "alice"}
	outside := &fakeSession{id: "s2", userID: "bob"}
	g.Attach(inRoom)
	g.Attach(outside)
	g.Join("c1", inRoom)

	delivered := g.ToRoom("c1", MessageNew{ConversationID: "c1", MessageID: "m1"})

	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{EventMessageNew}, inRoom.events(t))
	assert.Empty(t, outside.frames)
}

func TestToRoomExcept_SkipsTheSendersSession(t *testing.T) {
	g := newTestGateway()
	sender := &fakeSession{id: "s1", userID: "alice"}
	peer := &fakeSession{id: "s2", userID: "bob"}
	g.Attach(sender)
	g.Attach(peer)
	g.Join("c1", sender)
	g.Join("c1", peer)

	delivered := g.ToRoomExcept("c1", sender.id, TypingStart{ConversationID: "c1", SenderID: "alice"})

	assert.Equal(t, 1, delivered)
	assert.Empty(t, sender.frames)
	assert.Equal(t, []string{EventTypingStart}, peer.events(t))
}

func TestDetach_PrunesRoomAndPersonalMembership(t *testing.T) {
	g := newTestGateway()
	s := &fakeSession{id: "s1", userID: "alice"}
	g.Attach(s)
	g.Join("c1", s)
	g.Join("c2", s)

	g.Detach(s)

	assert.Zero(t, g.ToRoom("c1", MessageNew{ConversationID: "c1"}))
	assert.Zero(t, g.ToRoom("c2", MessageNew{ConversationID: "c2"}))
	assert.Zero(t, g.ToUser("alice", NotificationNew{}))

	g.mu.RLock()
	defer g.mu.RUnlock()
	assert.Empty(t, g.sessions)
	assert.Empty(t, g.users)
	assert.Empty(t, g.rooms)
	assert.Empty(t, g.joined)
}

func TestJoin_UnknownSessionIsIgnored(t *testing.T) {
	g := newTestGateway()
	s := &fakeSession{id: "s1", userID: "alice"}

	g.Join("c1", s)

	assert.Zero(t, g.ToRoom("c1", MessageNew{ConversationID: "c1"}))
}

func TestDeliver_FailingSessionOnlyLosesItsOwnCopy(t *testing.T) {
	g := newTestGateway()
	broken := &fakeSession{id: "s1", userID: "alice", fail: true}
	healthy := &fakeSession{id: "s2", userID: "bob"}
	g.Attach(broken)
	g.Attach(healthy)
	g.Join("c1", broken)
	g.Join("c1", healthy)

	delivered := g.ToRoom("c1", MessageNew{ConversationID: "c1"})

	assert.Equal(t, 1, delivered)
	assert.Len(t, healthy.frames, 1)
}

func TestLeave_RemovesOnlyThatRoom(t *testing.T) {
	g := newTestGateway()
	s := &fakeSession{id: "s1", userID: "alice"}
	g.Attach(s)
	g.Join("c1", s)
	g.Join("c2", s)

	g.Leave("c1", s)

	assert.Zero(t, g.ToRoom("c1", MessageNew{ConversationID: "c1"}))
	assert.Equal(t, 1, g.ToRoom("c2", MessageNew{ConversationID: "c2"}))
	assert.Equal(t, 1, g.ToUser("alice", NotificationNew{}))
}
