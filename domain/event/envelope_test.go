package event

import (
	"chat-live/domain"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type rogue struct{ Header }

func (rogue) Type() Type { return "ROGUE" }

func TestToEnvelope(t *testing.T) {
	channel := domain.Channel{ID: "general", Name: "General"}
	alice := domain.Identity{ID: "alice", Name: "Alice"}
	bob := domain.Identity{ID: "bob", Name: "Bob"}
	invitation := domain.Invitation{ID: uuid.New(), Channel: channel, Sender: alice, Receiver: bob}
	message := domain.Message{ID: uuid.New(), ChannelID: channel.ID, Author: alice, Content: "hello"}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	utc := at.UTC()

	testCases := []struct {
		name     string
		event    Event
		expected Envelope
	}{
		{"keep alive", KeepAlive{Header: Header{Seq: 1}, At: at},
			Envelope{ID: 1, Type: KeepAliveType, Timestamp: &utc}},
		{"new message", NewMessage{Header: Header{Seq: 2}, Message: message},
			Envelope{ID: 2, Type: NewMessageType, Payload: message}},
		{"member added", MemberAdded{Header: Header{Seq: 3}, Channel: channel, User: bob, Role: domain.Admin},
			Envelope{ID: 3, Type: MemberAddedType, Payload: MemberPayload{Channel: channel, User: bob, Role: domain.Admin}}},
		{"member removed", MemberRemoved{Header: Header{Seq: 4}, Channel: channel, User: bob},
			Envelope{ID: 4, Type: MemberRemovedType, Payload: MemberPayload{Channel: channel, User: bob}}},
		{"channel renamed", ChannelRenamed{Header: Header{Seq: 5}, Channel: channel},
			Envelope{ID: 5, Type: ChannelRenamedType, Payload: channel}},
		{"new invitation", NewInvitation{Header: Header{Seq: 6}, Invitation: invitation},
			Envelope{ID: 6, Type: NewInvitationType, Payload: invitation}},
		{"invitation accepted", InvitationAccepted{Header: Header{Seq: 7}, Invitation: invitation},
			Envelope{ID: 7, Type: InvitationAcceptedType, Payload: invitation}},
		{"username changed", UsernameChanged{Header: Header{Seq: 8}, User: alice},
			Envelope{ID: 8, Type: UsernameChangedType, Payload: alice}},
	}

	require.Len(t, testCases, len(Types))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := ToEnvelope(tc.event)
			require.NoError(t, err)
			require.Equal(t, tc.expected, env)
		})
	}
}

func TestToEnvelope_Rejects_Foreign_Event(t *testing.T) {
	_, err := ToEnvelope(rogue{Header{Seq: 1}})
	require.Error(t, err)
}

func TestEnvelope_Json(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	keepAlive, err := ToEnvelope(KeepAlive{Header: Header{Seq: 41}, At: at})
	req.NoError(err)
	data, err := json.Marshal(keepAlive)
	req.NoError(err)
	req.JSONEq(`{"id":41,"type":"KEEP_ALIVE","timestamp":"2024-03-01T09:00:00Z"}`, string(data))

	renamed, err := ToEnvelope(ChannelRenamed{Header: Header{Seq: 42}, Channel: domain.Channel{ID: "c1", Name: "Lobby"}})
	req.NoError(err)
	data, err = json.Marshal(renamed)
	req.NoError(err)
	req.JSONEq(`{"id":42,"type":"CHANNEL_RENAMED","payload":{"id":"c1","name":"Lobby"}}`, string(data))
}
