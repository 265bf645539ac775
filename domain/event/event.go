// Package event holds the closed catalog of live events pushed to connected clients.
//
// Event is a sealed interface: only the variants declared in this package
// implement it, so the type switch in ToEnvelope stays exhaustive.
package event

import (
	"chat-live/domain"
	"time"
)

type Type string

const (
	KeepAliveType          Type = "KEEP_ALIVE"
	NewMessageType         Type = "NEW_MESSAGE"
	MemberAddedType        Type = "MEMBER_ADDED"
	MemberRemovedType      Type = "MEMBER_REMOVED"
	ChannelRenamedType     Type = "CHANNEL_RENAMED"
	NewInvitationType      Type = "NEW_INVITATION"
	InvitationAcceptedType Type = "INVITATION_ACCEPTED"
	UsernameChangedType    Type = "USERNAME_CHANGED"
)

// Types lists every variant of the catalog.
var Types = []Type{
	KeepAliveType,
	NewMessageType,
	MemberAddedType,
	MemberRemovedType,
	ChannelRenamedType,
	NewInvitationType,
	InvitationAcceptedType,
	UsernameChangedType,
}

type Event interface {
	Sequence() uint64
	Type() Type
	sealed()
}

// Header carries the sequence id shared by every variant.
type Header struct {
	Seq uint64
}

func (h Header) Sequence() uint64 { return h.Seq }
func (Header) sealed()            {}

type KeepAlive struct {
	Header
	At time.Time
}

func (KeepAlive) Type() Type { return KeepAliveType }

type NewMessage struct {
	Header
	Message domain.Message
}

func (NewMessage) Type() Type { return NewMessageType }

type MemberAdded struct {
	Header
	Channel domain.Channel
	User    domain.Identity
	Role    domain.Role
}

func (MemberAdded) Type() Type { return MemberAddedType }

type MemberRemoved struct {
	Header
	Channel domain.Channel
	User    domain.Identity
}

func (MemberRemoved) Type() Type { return MemberRemovedType }

type ChannelRenamed struct {
	Header
	Channel domain.Channel
}

func (ChannelRenamed) Type() Type { return ChannelRenamedType }

type NewInvitation struct {
	Header
	Invitation domain.Invitation
}

func (NewInvitation) Type() Type { return NewInvitationType }

type InvitationAccepted struct {
	Header
	Invitation domain.Invitation
}

func (InvitationAccepted) Type() Type { return InvitationAcceptedType }

type UsernameChanged struct {
	Header
	User domain.Identity
}

func (UsernameChanged) Type() Type { return UsernameChangedType }
