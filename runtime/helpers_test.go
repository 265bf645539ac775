package runtime

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/mocks"
	"chat-live/sink"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestRegistry returns a registry resolving only the given identities.
func newTestRegistry(t *testing.T, known ...domain.UserID) *Registry {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIdentityResolver(ctrl)
	resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id domain.UserID) (domain.Identity, error) {
			if lo.Contains(known, id) {
				return domain.Identity{ID: id, Name: strings.ToUpper(string(id))}, nil
			}
			return domain.Identity{}, errors.ErrUnknownIdentity
		}).
		AnyTimes()
	return NewRegistry(logs.GetLoggerFromLevel(slog.LevelDebug), resolver, NewSequencer(), nil)
}

func register(t *testing.T, r *Registry, id domain.UserID, bufferSize int) *sink.Handle {
	t.Helper()
	handle := sink.NewHandle(bufferSize)
	_, err := r.Register(context.Background(), handle, domain.Identity{ID: id})
	require.NoError(t, err)
	return handle
}

func message(seq uint64) event.Event {
	return event.NewMessage{Header: event.Header{Seq: seq}}
}

// drain collects whatever is queued on the handle right now.
func drain(h *sink.Handle) []event.Event {
	var res []event.Event
	for {
		select {
		case e := <-h.Events():
			res = append(res, e)
		default:
			return res
		}
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}
