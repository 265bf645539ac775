package event

import (
	"chat-live/domain"
	"fmt"
	"time"
)

// Envelope is the transport-neutral shape of an emitted event.
type Envelope struct {
	ID        uint64     `json:"id"`
	Type      Type       `json:"type"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Payload   any        `json:"payload,omitempty"`
}

type MemberPayload struct {
	Channel domain.Channel  `json:"channel"`
	User    domain.Identity `json:"user"`
	Role    domain.Role     `json:"role,omitempty"`
}

// ToEnvelope maps every variant of the catalog to its wire shape.
func ToEnvelope(e Event) (Envelope, error) {
	env := Envelope{ID: e.Sequence(), Type: e.Type()}
	switch evt := e.(type) {
	case KeepAlive:
		at := evt.At.UTC()
		env.Timestamp = &at
	case NewMessage:
		env.Payload = evt.Message
	case MemberAdded:
		env.Payload = MemberPayload{Channel: evt.Channel, User: evt.User, Role: evt.Role}
	case MemberRemoved:
		env.Payload = MemberPayload{Channel: evt.Channel, User: evt.User}
	case ChannelRenamed:
		env.Payload = evt.Channel
	case NewInvitation:
		env.Payload = evt.Invitation
	case InvitationAccepted:
		env.Payload = evt.Invitation
	case UsernameChanged:
		env.Payload = evt.User
	default:
		return Envelope{}, fmt.Errorf("unsupported event %T", e)
	}
	return env, nil
}
