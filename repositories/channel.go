package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IChannelRepository interface {
	SaveChannel(channel domain.Channel) error
	Channel(id domain.ChannelID) (domain.Channel, error)
	SaveInvitation(invitation domain.Invitation) error
	TakeInvitation(id uuid.UUID) (domain.Invitation, error)
}

// ChannelRepository keeps the channel names and the pending invitations
// needed to build live payloads.
type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func channelKey(id domain.ChannelID) []byte {
	return []byte("channel:" + string(id))
}

func invitationKey(id uuid.UUID) []byte {
	return []byte("invitation:" + id.String())
}

func (c *ChannelRepository) SaveChannel(channel domain.Channel) error {
	return c.put(channelKey(channel.ID), channel)
}

// Channel returns ErrUnknownChannel when id was never saved.
func (c *ChannelRepository) Channel(id domain.ChannelID) (domain.Channel, error) {
	var channel domain.Channel
	err := c.db.View(func(txn *badger.Txn) error {
		return get(txn, channelKey(id), &channel)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Channel{}, fmt.Errorf("%w: %s", errors.ErrUnknownChannel, id)
	}
	return channel, err
}

func (c *ChannelRepository) SaveInvitation(invitation domain.Invitation) error {
	return c.put(invitationKey(invitation.ID), invitation)
}

// TakeInvitation reads and deletes a pending invitation in one transaction,
// so an invitation is accepted at most once.
func (c *ChannelRepository) TakeInvitation(id uuid.UUID) (domain.Invitation, error) {
	var invitation domain.Invitation
	err := c.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, invitationKey(id), &invitation); err != nil {
			return err
		}
		return txn.Delete(invitationKey(id))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Invitation{}, fmt.Errorf("%w: %s", errors.ErrUnknownInvitation, id)
	}
	return invitation, err
}

func (c *ChannelRepository) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func get(txn *badger.Txn, key []byte, value any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, value)
	})
}
