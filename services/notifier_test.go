package services

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/mocks"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNotifier_Resolves_Channel_Audience(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture(t, "A", "B", "C")
	memberships := mocks.NewMockMembershipReader(ctrl)
	notifier := NewNotifier(slog.Default(), f.publisher, memberships)
	ctx := context.Background()

	memberships.EXPECT().
		ChannelMembers(gomock.Any(), general.ID).
		Return(domain.Audience{"A", "B"}, nil).
		Times(2)

	// When A posts and then C joins
	notifier.MessagePosted(ctx, domain.Message{
		ID:        uuid.New(),
		ChannelID: general.ID,
		Author:    identity("A"),
		Content:   "hi",
		CreatedAt: time.Now().UTC(),
	})
	notifier.MemberJoined(ctx, general, identity("C"), domain.ReadOnly)

	// Then members receive both, C neither
	for _, id := range []domain.UserID{"A", "B"} {
		events := f.received(id)
		req.Len(events, 2)
		req.Equal(event.NewMessageType, events[0].Type())
		req.Equal(event.MemberAddedType, events[1].Type())
	}
	req.Empty(f.received("C"))
}

func TestNotifier_Username_Changed_Reaches_CoMembers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture(t, "A", "B", "C")
	memberships := mocks.NewMockMembershipReader(ctrl)
	notifier := NewNotifier(slog.Default(), f.publisher, memberships)

	memberships.EXPECT().
		CoMembers(gomock.Any(), domain.UserID("B")).
		Return(domain.Audience{"C"}, nil)

	notifier.UsernameChanged(context.Background(), identity("B"))

	req.Empty(f.received("A"))
	req.Empty(f.received("B"))
	req.Len(f.received("C"), 1)
}

func TestNotifier_Lookup_Failure_Drops_Event(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockIPublisher(ctrl)
	memberships := mocks.NewMockMembershipReader(ctrl)
	notifier := NewNotifier(slog.Default(), publisher, memberships)
	ctx := context.Background()

	memberships.EXPECT().
		ChannelMembers(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("badger closed")).
		Times(3)
	memberships.EXPECT().
		CoMembers(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("badger closed"))

	// The publisher mock has no expectation: any call fails the test
	notifier.MemberLeft(ctx, general, identity("A"))
	notifier.ChannelRenamed(ctx, general)
	notifier.MessagePosted(ctx, domain.Message{ID: uuid.New(), ChannelID: general.ID})
	notifier.UsernameChanged(ctx, identity("A"))

	req.True(ctrl.Satisfied())
}

func TestNotifier_Invitations_Skip_Membership_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t, "A", "B")
	notifier := NewNotifier(slog.Default(), f.publisher, mocks.NewMockMembershipReader(ctrl))
	inv := invitation("A", "B")

	notifier.InvitationCreated(context.Background(), inv)
	notifier.InvitationAccepted(context.Background(), inv)

	require.Len(t, f.received("A"), 1)
	require.Len(t, f.received("B"), 1)
}
