package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Gateway owns realtime fan-out. It tracks two registries: conversation rooms
// and per-user personal rooms, both mapping an identifier to the set of live
// sessions. Personal-room membership is automatic at Attach; conversation rooms
// are joined and left explicitly by the socket layer after authorization.
//
// Membership is in-process only. A multi-instance deployment needs an external
// relay to fan events across gateways; that relay is out of scope here.
type Gateway struct {
	mu       sync.RWMutex
	sessions map[string]Session             // sessionID -> session
	users    map[string]map[string]Session  // userID -> sessionID -> session
	rooms    map[string]map[string]Session  // conversationID -> sessionID -> session
	joined   map[string]map[string]struct{} // sessionID -> set of conversationIDs

	log *logrus.Entry
}

// NewGateway constructs an empty Gateway.
func NewGateway(log *logrus.Logger) *Gateway {
	return &Gateway{
		sessions: make(map[string]Session),
		users:    make(map[string]map[string]Session),
		rooms:    make(map[string]map[string]Session),
		joined:   make(map[string]map[string]struct{}),
		log:      log.WithField("component", "realtime"),
	}
}

// Attach registers a session and places it in its user's personal room. A user
// may hold several concurrent sessions (multiple tabs or devices).
func (g *Gateway) Attach(s Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sessions[s.SessionID()] = s
	personal := g.users[s.UserID()]
	if personal == nil {
		personal = make(map[string]Session)
		g.users[s.UserID()] = personal
	}
	personal[s.SessionID()] = s
	g.joined[s.SessionID()] = make(map[string]struct{})
}

// Detach removes the session from every room it joined and from its personal
// room. Must run on every disconnect so registries cannot leak.
func (g *Gateway) Detach(s Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := s.SessionID()
	if _, ok := g.sessions[id]; !ok {
		return
	}
	delete(g.sessions, id)

	if personal, ok := g.users[s.UserID()]; ok {
		delete(personal, id)
		if len(personal) == 0 {
			delete(g.users, s.UserID())
		}
	}
	for roomID := range g.joined[id] {
		g.leaveLocked(roomID, id)
	}
	delete(g.joined, id)
}

// Join adds the session to a conversation room. Unknown sessions are ignored.
func (g *Gateway) Join(conversationID string, s Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := s.SessionID()
	if _, ok := g.sessions[id]; !ok {
		return
	}
	room := g.rooms[conversationID]
	if room == nil {
		room = make(map[string]Session)
		g.rooms[conversationID] = room
	}
	room[id] = s
	g.joined[id][conversationID] = struct{}{}
}

// Leave removes the session from a conversation room.
func (g *Gateway) Leave(conversationID string, s Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveLocked(conversationID, s.SessionID())
}

func (g *Gateway) leaveLocked(conversationID, sessionID string) {
	room := g.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(g.rooms, conversationID)
	}
	if memberships, ok := g.joined[sessionID]; ok {
		delete(memberships, conversationID)
	}
}

// ToRoom delivers ev to every session in the conversation room and returns the
// delivered count. Delivery failures are logged and skipped; the disconnecting
// client only loses its own copy.
func (g *Gateway) ToRoom(conversationID string, ev Event) int {
	return g.toRoom(conversationID, ev, "")
}

// ToRoomExcept behaves like ToRoom but skips one session, used by relays so a
// sender does not receive its own typing events back.
func (g *Gateway) ToRoomExcept(conversationID, exceptSessionID string, ev Event) int {
	return g.toRoom(conversationID, ev, exceptSessionID)
}

func (g *Gateway) toRoom(conversationID string, ev Event, exceptSessionID string) int {
	payload, err := g.encode(ev)
	if err != nil {
		return 0
	}

	g.mu.RLock()
	room := g.rooms[conversationID]
	targets := make([]Session, 0, len(room))
	for id, s := range room {
		if id == exceptSessionID {
			continue
		}
		targets = append(targets, s)
	}
	g.mu.RUnlock()

	return g.deliver(targets, ev.EventName(), payload)
}

// ToUser delivers ev to every session in the user's personal room.
func (g *Gateway) ToUser(userID string, ev Event) int {
	payload, err := g.encode(ev)
	if err != nil {
		return 0
	}

	g.mu.RLock()
	personal := g.users[userID]
	targets := make([]Session, 0, len(personal))
	for _, s := range personal {
		targets = append(targets, s)
	}
	g.mu.RUnlock()

	return g.deliver(targets, ev.EventName(), payload)
}

func (g *Gateway) encode(ev Event) ([]byte, error) {
	payload, err := json.Marshal(envelope{Event: ev.EventName(), Data: ev})
	if err != nil {
		g.log.WithError(err).WithField("event", ev.EventName()).Error("encode event")
		return nil, err
	}
	return payload, nil
}

func (g *Gateway) deliver(targets []Session, event string, payload []byte) int {
	delivered := 0
	for _, s := range targets {
		if err := s.Send(payload); err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"event":   event,
				"session": s.SessionID(),
				"user":    s.UserID(),
			}).Warn("drop event for session")
			continue
		}
		delivered++
	}
	return delivered
}
