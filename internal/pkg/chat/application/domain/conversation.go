package chat

import (
	"errors"
	"time"
)

// ConversationKind discriminates the two conversation variants.
type ConversationKind string

const (
	KindDirect ConversationKind = "direct"
	KindGroup  ConversationKind = "group"
)

// Role is a participant's role within a conversation.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Domain-level errors for conversation behaviors.
var (
	ErrNotParticipant = errors.New("chat: user is not a participant in the conversation")
	ErrEmptyMessage   = errors.New("chat: message needs content or at least one attachment")
	ErrGroupTooSmall  = errors.New("chat: a group requires at least two patients")
	ErrNotGroup       = errors.New("chat: conversation is not a group")
)

// Participant is a (userID, role) pair with access to a conversation.
type Participant struct {
	UserID string
	Role   Role
}

// Conversation is an addressable thread of messages among a fixed participant
// set. The direct variant carries PatientID/DoctorID; the group variant
// carries GroupName/CreatedBy. Participants is populated for both variants so
// membership checks are uniform. Conversations are soft-deleted only.
type Conversation struct {
	ID   string
	Kind ConversationKind

	PatientID string
	DoctorID  string

	GroupName string
	CreatedBy string

	Participants []Participant

	LastMessage   string
	LastMessageAt time.Time
	LastSeq       int64

	CreatedAt time.Time
	UpdatedAt time.Time
	Destroyed bool
}

// HasParticipant reports whether userID belongs to the conversation,
// regardless of variant.
func (c *Conversation) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantOthers returns every participant except userID. Fan-out paths use
// it so a sender never notifies itself.
func (c *Conversation) ParticipantOthers(userID string) []Participant {
	if c == nil {
		return nil
	}
	others := make([]Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.UserID != userID {
			others = append(others, p)
		}
	}
	return others
}

// NewGroup validates and shapes a group conversation: creator (a doctor) plus
// at least two patients.
func NewGroup(doctorID, groupName string, patientIDs []string) (*Conversation, error) {
	if doctorID == "" || groupName == "" {
		return nil, errors.New("chat: doctor id and group name are required")
	}
	if len(patientIDs) < 2 {
		return nil, ErrGroupTooSmall
	}

	participants := make([]Participant, 0, len(patientIDs)+1)
	participants = append(participants, Participant{UserID: doctorID, Role: RoleDoctor})
	for _, id := range patientIDs {
		if id == "" {
			continue
		}
		participants = append(participants, Participant{UserID: id, Role: RolePatient})
	}
	if len(participants) < 3 {
		return nil, ErrGroupTooSmall
	}

	now := time.Now().UTC()
	return &Conversation{
		Kind:         KindGroup,
		GroupName:    groupName,
		CreatedBy:    doctorID,
		DoctorID:     doctorID,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
