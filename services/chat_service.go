//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/repositories"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type IChatService interface {
	SaveUser(ctx context.Context, identity domain.Identity) error
	SaveChannel(ctx context.Context, channel domain.Channel) error
	AddMember(ctx context.Context, channelID domain.ChannelID, userID domain.UserID, role domain.Role) error
	RemoveMember(ctx context.Context, channelID domain.ChannelID, userID domain.UserID) error
	PostMessage(ctx context.Context, channelID domain.ChannelID, authorID domain.UserID, content string) (domain.Message, error)
	Invite(ctx context.Context, channelID domain.ChannelID, senderID, receiverID domain.UserID) (domain.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID uuid.UUID, receiverID domain.UserID) (domain.Invitation, error)
}

// ChatService is the write side sitting in front of the live subsystem:
// each operation commits to the read model first, then notifies.
type ChatService struct {
	log         *slog.Logger
	users       repositories.IUserRepository
	channels    repositories.IChannelRepository
	memberships repositories.IMembershipRepository
	notifier    *Notifier
	now         func() time.Time
}

func NewChatService(log *slog.Logger, users repositories.IUserRepository, channels repositories.IChannelRepository,
	memberships repositories.IMembershipRepository, notifier *Notifier) *ChatService {
	return &ChatService{
		log:         log,
		users:       users,
		channels:    channels,
		memberships: memberships,
		notifier:    notifier,
		now:         time.Now,
	}
}

// SaveUser creates the identity or renames it. Co-members only hear about an actual rename.
func (s *ChatService) SaveUser(ctx context.Context, identity domain.Identity) error {
	if identity.ID == "" || strings.TrimSpace(identity.Name) == "" {
		return fmt.Errorf("%w: user needs an id and a name", errors.ErrInvalidEvent)
	}
	previous, err := s.users.Resolve(ctx, identity.ID)
	known := err == nil
	if err != nil && !isNotFound(err) {
		return err
	}
	if err := s.users.SaveUser(identity); err != nil {
		return fmt.Errorf("save user %s: %w", identity.ID, err)
	}
	if known && previous.Name != identity.Name {
		s.notifier.UsernameChanged(ctx, identity)
	}
	return nil
}

// SaveChannel creates the channel or renames it. Members only hear about an actual rename.
func (s *ChatService) SaveChannel(ctx context.Context, channel domain.Channel) error {
	if channel.ID == "" || strings.TrimSpace(channel.Name) == "" {
		return fmt.Errorf("%w: channel needs an id and a name", errors.ErrInvalidEvent)
	}
	previous, err := s.channels.Channel(channel.ID)
	known := err == nil
	if err != nil && !isNotFound(err) {
		return err
	}
	if err := s.channels.SaveChannel(channel); err != nil {
		return fmt.Errorf("save channel %s: %w", channel.ID, err)
	}
	if known && previous.Name != channel.Name {
		s.notifier.ChannelRenamed(ctx, channel)
	}
	return nil
}

// AddMember stores the membership with role. Only a new member is announced:
// adding an existing member again just updates its role.
func (s *ChatService) AddMember(ctx context.Context, channelID domain.ChannelID, userID domain.UserID, role domain.Role) error {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
	}
	channel, user, err := s.channelAndUser(ctx, channelID, userID)
	if err != nil {
		return err
	}
	alreadyMember, err := s.memberships.IsMember(channel.ID, user.ID)
	if err != nil {
		return err
	}
	if err := s.memberships.AddMember(channel.ID, user.ID, role); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if alreadyMember {
		s.log.Debug("Member role updated", "channel_id", channel.ID, "user_id", user.ID, "role", role)
		return nil
	}
	s.notifier.MemberJoined(ctx, channel, user, role)
	return nil
}

func (s *ChatService) RemoveMember(ctx context.Context, channelID domain.ChannelID, userID domain.UserID) error {
	channel, user, err := s.channelAndUser(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if err := s.requireMember(channel.ID, user.ID); err != nil {
		return err
	}
	if err := s.memberships.RemoveMember(channel.ID, user.ID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	s.notifier.MemberLeft(ctx, channel, user)
	return nil
}

func (s *ChatService) PostMessage(ctx context.Context, channelID domain.ChannelID, authorID domain.UserID,
	content string) (domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, fmt.Errorf("%w: empty message", errors.ErrInvalidEvent)
	}
	channel, author, err := s.channelAndUser(ctx, channelID, authorID)
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.requireMember(channel.ID, author.ID); err != nil {
		return domain.Message{}, err
	}
	message := domain.Message{
		ID:        uuid.New(),
		ChannelID: channel.ID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	s.notifier.MessagePosted(ctx, message)
	return message, nil
}

// Invite requires the sender to be a member and the receiver not to be one yet.
func (s *ChatService) Invite(ctx context.Context, channelID domain.ChannelID,
	senderID, receiverID domain.UserID) (domain.Invitation, error) {
	if senderID == receiverID {
		return domain.Invitation{}, fmt.Errorf("%w: cannot invite oneself", errors.ErrInvalidEvent)
	}
	channel, sender, err := s.channelAndUser(ctx, channelID, senderID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if err := s.requireMember(channel.ID, sender.ID); err != nil {
		return domain.Invitation{}, err
	}
	receiver, err := s.users.Resolve(ctx, receiverID)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("receiver %s: %w", receiverID, err)
	}
	if isMember, err := s.memberships.IsMember(channel.ID, receiver.ID); err != nil {
		return domain.Invitation{}, err
	} else if isMember {
		return domain.Invitation{}, fmt.Errorf("%w: %s already in %s", errors.ErrInvalidEvent, receiver.ID, channel.ID)
	}

	invitation := domain.Invitation{
		ID:        uuid.New(),
		Channel:   channel,
		Sender:    sender,
		Receiver:  receiver,
		CreatedAt: s.now().UTC(),
	}
	if err := s.channels.SaveInvitation(invitation); err != nil {
		return domain.Invitation{}, fmt.Errorf("save invitation: %w", err)
	}
	s.notifier.InvitationCreated(ctx, invitation)
	return invitation, nil
}

// AcceptInvitation makes the receiver a READ_WRITE member. The sender hears
// about the acceptance, the other members about the new member.
func (s *ChatService) AcceptInvitation(ctx context.Context, invitationID uuid.UUID,
	receiverID domain.UserID) (domain.Invitation, error) {
	invitation, err := s.channels.TakeInvitation(invitationID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if invitation.Receiver.ID != receiverID {
		// Put it back for its rightful receiver
		if err := s.channels.SaveInvitation(invitation); err != nil {
			s.log.Error("Cannot restore invitation", "invitation_id", invitation.ID, "error", err)
		}
		return domain.Invitation{}, fmt.Errorf("%w: invitation %s", errors.ErrUnknownInvitation, invitationID)
	}
	if err := s.memberships.AddMember(invitation.Channel.ID, invitation.Receiver.ID, domain.ReadWrite); err != nil {
		return domain.Invitation{}, fmt.Errorf("add member: %w", err)
	}
	s.notifier.InvitationAccepted(ctx, invitation)
	s.notifier.MemberJoined(ctx, invitation.Channel, invitation.Receiver, domain.ReadWrite)
	return invitation, nil
}

func (s *ChatService) channelAndUser(ctx context.Context, channelID domain.ChannelID,
	userID domain.UserID) (domain.Channel, domain.Identity, error) {
	channel, err := s.channels.Channel(channelID)
	if err != nil {
		return domain.Channel{}, domain.Identity{}, err
	}
	user, err := s.users.Resolve(ctx, userID)
	if err != nil {
		return domain.Channel{}, domain.Identity{}, fmt.Errorf("user %s: %w", userID, err)
	}
	return channel, user, nil
}

func (s *ChatService) requireMember(channelID domain.ChannelID, userID domain.UserID) error {
	isMember, err := s.memberships.IsMember(channelID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("%w: %s in %s", errors.ErrNotMember, userID, channelID)
	}
	return nil
}

func isNotFound(err error) bool {
	return stderrors.Is(err, errors.ErrUnknownIdentity) || stderrors.Is(err, errors.ErrUnknownChannel)
}
