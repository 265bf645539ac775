//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=../mocks/mock_publisher.go -package=mocks
package services

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

type IPublisher interface {
	SendNewMessage(ctx context.Context, message domain.Message, audience domain.Audience) (contract.Delivery, error)
	SendMemberAdded(ctx context.Context, channel domain.Channel, added domain.Identity, role domain.Role, audience domain.Audience) (contract.Delivery, error)
	SendMemberRemoved(ctx context.Context, channel domain.Channel, removed domain.Identity, audience domain.Audience) (contract.Delivery, error)
	SendChannelRenamed(ctx context.Context, channel domain.Channel, audience domain.Audience) (contract.Delivery, error)
	SendNewInvitation(ctx context.Context, invitation domain.Invitation) (contract.Delivery, error)
	SendInvitationAccepted(ctx context.Context, invitation domain.Invitation) (contract.Delivery, error)
	SendUsernameChanged(ctx context.Context, user domain.Identity, audience domain.Audience) (contract.Delivery, error)
}

// Publisher turns committed business actions into live events.
//
// It must be called after the caller's own transaction has committed.
// Delivery is best-effort: a broken recipient is skipped and never reported
// as an error. The only error returned is ErrInvalidEvent for a malformed payload.
//
// Echo policy, per event: the author of a message receives it like any other
// member; the actor of a membership, invitation or rename change never
// receives an echo of it.
type Publisher struct {
	log       *slog.Logger
	registry  contract.IRegistry
	validator *validator.Validate
}

func NewPublisher(log *slog.Logger, registry contract.IRegistry) *Publisher {
	return &Publisher{log: log, registry: registry, validator: validator.New()}
}

func (p *Publisher) SendNewMessage(ctx context.Context, message domain.Message,
	audience domain.Audience) (contract.Delivery, error) {
	if err := p.validate(message); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, audience, func(seq uint64) event.Event {
		return event.NewMessage{Header: event.Header{Seq: seq}, Message: message}
	}), nil
}

// SendMemberAdded notifies the members present before the addition.
func (p *Publisher) SendMemberAdded(ctx context.Context, channel domain.Channel, added domain.Identity,
	role domain.Role, audience domain.Audience) (contract.Delivery, error) {
	if err := p.validate(channel, added); err != nil {
		return contract.Delivery{}, err
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return contract.Delivery{}, fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
	}
	return p.deliver(ctx, audience.Without(added.ID), func(seq uint64) event.Event {
		return event.MemberAdded{Header: event.Header{Seq: seq}, Channel: channel, User: added, Role: role}
	}), nil
}

// SendMemberRemoved notifies the remaining members.
func (p *Publisher) SendMemberRemoved(ctx context.Context, channel domain.Channel, removed domain.Identity,
	audience domain.Audience) (contract.Delivery, error) {
	if err := p.validate(channel, removed); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, audience.Without(removed.ID), func(seq uint64) event.Event {
		return event.MemberRemoved{Header: event.Header{Seq: seq}, Channel: channel, User: removed}
	}), nil
}

func (p *Publisher) SendChannelRenamed(ctx context.Context, channel domain.Channel,
	audience domain.Audience) (contract.Delivery, error) {
	if err := p.validate(channel); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, audience, func(seq uint64) event.Event {
		return event.ChannelRenamed{Header: event.Header{Seq: seq}, Channel: channel}
	}), nil
}

// SendNewInvitation reaches the receiver only.
func (p *Publisher) SendNewInvitation(ctx context.Context, invitation domain.Invitation) (contract.Delivery, error) {
	if err := p.validateInvitation(invitation); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, domain.NewAudience(invitation.Receiver.ID), func(seq uint64) event.Event {
		return event.NewInvitation{Header: event.Header{Seq: seq}, Invitation: invitation}
	}), nil
}

// SendInvitationAccepted reaches the sender only; the receiver is the one who accepted.
func (p *Publisher) SendInvitationAccepted(ctx context.Context, invitation domain.Invitation) (contract.Delivery, error) {
	if err := p.validateInvitation(invitation); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, domain.NewAudience(invitation.Sender.ID), func(seq uint64) event.Event {
		return event.InvitationAccepted{Header: event.Header{Seq: seq}, Invitation: invitation}
	}), nil
}

// SendUsernameChanged notifies everyone sharing a channel with user.
func (p *Publisher) SendUsernameChanged(ctx context.Context, user domain.Identity,
	audience domain.Audience) (contract.Delivery, error) {
	if err := p.validate(user); err != nil {
		return contract.Delivery{}, err
	}
	return p.deliver(ctx, audience.Without(user.ID), func(seq uint64) event.Event {
		return event.UsernameChanged{Header: event.Header{Seq: seq}, User: user}
	}), nil
}

func (p *Publisher) deliver(ctx context.Context, audience domain.Audience,
	build contract.EventBuilder) contract.Delivery {
	delivery := p.registry.Deliver(ctx, domain.NewAudience(audience...), build)
	p.log.Debug("Live event published",
		"seq", delivery.Sequence,
		"audience", len(audience),
		"delivered", delivery.Delivered,
		"failed", delivery.Failed)
	return delivery
}

func (p *Publisher) validateInvitation(invitation domain.Invitation) error {
	if err := p.validate(invitation); err != nil {
		return err
	}
	if invitation.Sender.ID == invitation.Receiver.ID {
		return fmt.Errorf("%w: invitation %s sent to its own sender", errors.ErrInvalidEvent, invitation.ID)
	}
	return nil
}

func (p *Publisher) validate(payloads ...any) error {
	for _, payload := range payloads {
		if err := p.validator.Struct(payload); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
		}
	}
	return nil
}
