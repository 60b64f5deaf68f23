package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"healthmate/internal/infrastructure/realtime"
	chat "healthmate/internal/pkg/chat/application/domain"
	dirport "healthmate/internal/pkg/directory/port"
)

// In-memory stand-ins for the persistence and directory ports. They keep just
// enough state to observe use case behavior without a database.

type fakeConversationRepo struct {
	byID      map[string]*chat.Conversation
	nextID    int
	removed   [][2]string
	removeErr error
}

func newFakeConversationRepo(convs ...*chat.Conversation) *fakeConversationRepo {
	r := &fakeConversationRepo{byID: make(map[string]*chat.Conversation)}
	for _, c := range convs {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeConversationRepo) FindOrCreateDirect(_ context.Context, patientID, doctorID string) (*chat.Conversation, bool, error) {
	for _, c := range r.byID {
		if c.Kind == chat.KindDirect && c.PatientID == patientID && c.DoctorID == doctorID && !c.Destroyed {
			return c, false, nil
		}
	}
	r.nextID++
	conv := &chat.Conversation{
		ID:        fmt.Sprintf("direct-%d", r.nextID),
		Kind:      chat.KindDirect,
		PatientID: patientID,
		DoctorID:  doctorID,
		Participants: []chat.Participant{
			{UserID: patientID, Role: chat.RolePatient},
			{UserID: doctorID, Role: chat.RoleDoctor},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.byID[conv.ID] = conv
	return conv, true, nil
}

func (r *fakeConversationRepo) CreateGroup(_ context.Context, c *chat.Conversation) (string, error) {
	r.nextID++
	c.ID = fmt.Sprintf("group-%d", r.nextID)
	r.byID[c.ID] = c
	return c.ID, nil
}

func (r *fakeConversationRepo) FindByID(_ context.Context, conversationID string) (*chat.Conversation, error) {
	return r.byID[conversationID], nil
}

func (r *fakeConversationRepo) ListForDoctor(_ context.Context, doctorID string) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, c := range r.byID {
		if c.HasParticipant(doctorID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) ListForPatient(_ context.Context, patientID string) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, c := range r.byID {
		if c.HasParticipant(patientID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) RemoveParticipant(_ context.Context, conversationID, userID string) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	c := r.byID[conversationID]
	if c == nil {
		return fmt.Errorf("conversation %s not found", conversationID)
	}
	remaining := c.Participants[:0]
	for _, p := range c.Participants {
		if p.UserID != userID {
			remaining = append(remaining, p)
		}
	}
	c.Participants = remaining
	r.removed = append(r.removed, [2]string{conversationID, userID})
	return nil
}

type fakeMessageRepo struct {
	messages      []*chat.Message
	nextID        int
	seqByConvo    map[string]int64
	markReadCalls int
	appendErr     error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{seqByConvo: make(map[string]int64)}
}

func (r *fakeMessageRepo) Append(_ context.Context, m *chat.Message) (*chat.Message, error) {
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	r.nextID++
	r.seqByConvo[m.ConversationID]++

	saved := *m
	saved.ID = fmt.Sprintf("m%d", r.nextID)
	saved.Seq = r.seqByConvo[m.ConversationID]
	saved.CreatedAt = time.Now()
	r.messages = append(r.messages, &saved)
	return &saved, nil
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]chat.Message, error) {
	var out []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, conversationID, userID string) error {
	r.markReadCalls++
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID {
			m.Read = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) MarkSeen(_ context.Context, conversationID, userID string) ([]chat.Message, error) {
	var changed []chat.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && m.Status == chat.StatusSent {
			m.Status = chat.StatusSeen
			m.Read = true
			changed = append(changed, *m)
		}
	}
	return changed, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, conversationID, userID string) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeDirectory struct {
	names    map[string]string
	assigned map[string]string
}

func (d *fakeDirectory) Lookup(_ context.Context, userID string) (*dirport.UserInfo, error) {
	name, ok := d.names[userID]
	if !ok {
		return nil, nil
	}
	return &dirport.UserInfo{ID: userID, Name: name}, nil
}

func (d *fakeDirectory) AssignedDoctor(_ context.Context, patientID string) (string, error) {
	return d.assigned[patientID], nil
}

type fakeSession struct {
	id     string
	userID string
	frames [][]byte
}

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) UserID() string    { return s.userID }

func (s *fakeSession) Send(payload []byte) error {
	s.frames = append(s.frames, payload)
	return nil
}

// eventNames decodes the envelope of every delivered frame.
func (s *fakeSession) eventNames(t *testing.T) []string {
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

func newTestGateway() *realtime.Gateway {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return realtime.NewGateway(logger)
}

// recordingNotifier captures notices handed to the notification side.
type recordingNotifier struct {
	notices []MessageNotice
}

func (n *recordingNotifier) MessageReceived(_ context.Context, notice MessageNotice) {
	n.notices = append(n.notices, notice)
}
