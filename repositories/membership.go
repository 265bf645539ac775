package repositories

import (
	"chat-live/domain"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IMembershipRepository interface {
	AddMember(channelID domain.ChannelID, userID domain.UserID, role domain.Role) error
	RemoveMember(channelID domain.ChannelID, userID domain.UserID) error
	IsMember(channelID domain.ChannelID, userID domain.UserID) (bool, error)
	ChannelMembers(ctx context.Context, channelID domain.ChannelID) (domain.Audience, error)
	CoMembers(ctx context.Context, userID domain.UserID) (domain.Audience, error)
}

// MembershipRepository is the read model of channel memberships used to
// resolve live audiences.
//
// Two keys are kept per membership so both lookups are prefix scans:
//
//	member:{len(channel)}:{channel}:{user}    -> role
//	member_of:{len(user)}:{user}:{channel}    -> role
//
// Ids are free strings, so the leading part carries its length: a channel
// "general:ops" can never share a prefix with a channel "general".
type MembershipRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMembershipRepository(db *badger.DB, log *slog.Logger) *MembershipRepository {
	return &MembershipRepository{db: db, log: log}
}

func membersPrefix(channelID domain.ChannelID) string {
	return fmt.Sprintf("member:%d:%s:", len(channelID), channelID)
}

func memberOfPrefix(userID domain.UserID) string {
	return fmt.Sprintf("member_of:%d:%s:", len(userID), userID)
}

func memberKey(channelID domain.ChannelID, userID domain.UserID) []byte {
	return []byte(membersPrefix(channelID) + string(userID))
}

func memberOfKey(userID domain.UserID, channelID domain.ChannelID) []byte {
	return []byte(memberOfPrefix(userID) + string(channelID))
}

func (m *MembershipRepository) AddMember(channelID domain.ChannelID, userID domain.UserID, role domain.Role) error {
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(memberKey(channelID, userID), []byte(role)); err != nil {
			return err
		}
		return txn.Set(memberOfKey(userID, channelID), []byte(role))
	})
}

func (m *MembershipRepository) RemoveMember(channelID domain.ChannelID, userID domain.UserID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(channelID, userID)); err != nil {
			return err
		}
		return txn.Delete(memberOfKey(userID, channelID))
	})
}

func (m *MembershipRepository) IsMember(channelID domain.ChannelID, userID domain.UserID) (bool, error) {
	err := m.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(channelID, userID))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ChannelMembers returns the current members of channelID.
func (m *MembershipRepository) ChannelMembers(_ context.Context, channelID domain.ChannelID) (domain.Audience, error) {
	var members domain.Audience
	err := m.db.View(func(txn *badger.Txn) error {
		members = scanSuffixes[domain.UserID](txn, membersPrefix(channelID))
		return nil
	})
	return members, err
}

// CoMembers returns every identity sharing at least one channel with userID, userID excluded.
func (m *MembershipRepository) CoMembers(_ context.Context, userID domain.UserID) (domain.Audience, error) {
	var audience domain.Audience
	err := m.db.View(func(txn *badger.Txn) error {
		channels := scanSuffixes[domain.ChannelID](txn, memberOfPrefix(userID))
		for _, channelID := range channels {
			audience = append(audience, scanSuffixes[domain.UserID](txn, membersPrefix(channelID))...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug("Co-members resolved", "user_id", userID, "count", len(audience))
	return domain.NewAudience(audience...).Without(userID), nil
}

// scanSuffixes collects the key part following prefix for every key under it.
func scanSuffixes[T ~string](txn *badger.Txn, prefix string) []T {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys []string
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return lo.Map(keys, func(k string, _ int) T { return T(k) })
}
