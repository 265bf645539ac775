package services

import (
	"chat-live/contract"
	"chat-live/domain"
	"context"
	"log/slog"
)

// Notifier is the producer-facing side of live distribution for callers
// that do not compute audiences themselves. Audiences are read from the
// membership read model, then handed to the Publisher.
//
// Nothing is returned to the caller: a lookup failure only means the event
// is not distributed, which the client reconciles on its next fetch.
type Notifier struct {
	log         *slog.Logger
	publisher   IPublisher
	memberships contract.MembershipReader
}

func NewNotifier(log *slog.Logger, publisher IPublisher, memberships contract.MembershipReader) *Notifier {
	return &Notifier{log: log, publisher: publisher, memberships: memberships}
}

func (n *Notifier) MessagePosted(ctx context.Context, message domain.Message) {
	audience, ok := n.channelMembers(ctx, message.ChannelID)
	if !ok {
		return
	}
	n.report(n.publisher.SendNewMessage(ctx, message, audience))
}

// MemberJoined may run after added shows up in the read model: the
// publisher filters the added identity out of the audience.
func (n *Notifier) MemberJoined(ctx context.Context, channel domain.Channel, added domain.Identity, role domain.Role) {
	audience, ok := n.channelMembers(ctx, channel.ID)
	if !ok {
		return
	}
	n.report(n.publisher.SendMemberAdded(ctx, channel, added, role, audience))
}

func (n *Notifier) MemberLeft(ctx context.Context, channel domain.Channel, removed domain.Identity) {
	audience, ok := n.channelMembers(ctx, channel.ID)
	if !ok {
		return
	}
	n.report(n.publisher.SendMemberRemoved(ctx, channel, removed, audience))
}

func (n *Notifier) ChannelRenamed(ctx context.Context, channel domain.Channel) {
	audience, ok := n.channelMembers(ctx, channel.ID)
	if !ok {
		return
	}
	n.report(n.publisher.SendChannelRenamed(ctx, channel, audience))
}

func (n *Notifier) InvitationCreated(ctx context.Context, invitation domain.Invitation) {
	n.report(n.publisher.SendNewInvitation(ctx, invitation))
}

func (n *Notifier) InvitationAccepted(ctx context.Context, invitation domain.Invitation) {
	n.report(n.publisher.SendInvitationAccepted(ctx, invitation))
}

func (n *Notifier) UsernameChanged(ctx context.Context, user domain.Identity) {
	audience, err := n.memberships.CoMembers(ctx, user.ID)
	if err != nil {
		n.log.Warn("Cannot resolve co-members, event dropped", "user_id", user.ID, "error", err)
		return
	}
	n.report(n.publisher.SendUsernameChanged(ctx, user, audience))
}

func (n *Notifier) channelMembers(ctx context.Context, channelID domain.ChannelID) (domain.Audience, bool) {
	audience, err := n.memberships.ChannelMembers(ctx, channelID)
	if err != nil {
		n.log.Warn("Cannot resolve channel members, event dropped", "channel_id", channelID, "error", err)
		return nil, false
	}
	return audience, true
}

func (n *Notifier) report(delivery contract.Delivery, err error) {
	if err != nil {
		n.log.Error("Live event rejected", "error", err)
		return
	}
	n.log.Debug("Live event distributed", "seq", delivery.Sequence, "delivered", delivery.Delivered)
}
