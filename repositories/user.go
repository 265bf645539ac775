package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	SaveUser(identity domain.Identity) error
	Resolve(ctx context.Context, id domain.UserID) (domain.Identity, error)
}

// UserRepository is the directory of identities known to the chat system.
// The CRUD layer writes it; the live registry only reads it to refuse
// connections from identities it cannot resolve.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userKey(id domain.UserID) []byte {
	return []byte("user:" + string(id))
}

// SaveUser creates or overwrites the identity, e.g. after a username change.
func (u *UserRepository) SaveUser(identity domain.Identity) error {
	if identity.ID == "" {
		return fmt.Errorf("save user: empty id")
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(identity.ID), data)
	})
}

// Resolve returns ErrUnknownIdentity when id was never saved.
func (u *UserRepository) Resolve(_ context.Context, id domain.UserID) (domain.Identity, error) {
	var identity domain.Identity
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &identity)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, errors.ErrUnknownIdentity
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}
