package ws

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/mocks"
	"chat-live/runtime"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type wsFixture struct {
	registry *runtime.Registry
	issuer   *auth.TokenIssuer
	url      string
}

func newWsFixture(t *testing.T) *wsFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIdentityResolver(ctrl)
	resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id domain.UserID) (domain.Identity, error) {
			if id == "alice" {
				return domain.Identity{ID: id, Name: "Alice"}, nil
			}
			return domain.Identity{}, errors.ErrUnknownIdentity
		}).
		AnyTimes()

	log := slog.Default()
	f := &wsFixture{
		registry: runtime.NewRegistry(log, resolver, runtime.NewSequencer(), nil),
		issuer:   auth.NewTokenIssuer("a-test-secret-of-sufficient-length", time.Hour),
	}
	server := httptest.NewServer(NewHandler(log, f.registry, f.issuer, 8, time.Second))
	t.Cleanup(server.Close)
	f.url = "ws" + strings.TrimPrefix(server.URL, "http")
	return f
}

func (f *wsFixture) token(t *testing.T, id domain.UserID) string {
	token, err := f.issuer.GenerateToken(domain.Identity{ID: id})
	require.NoError(t, err)
	return token
}

func TestHandler_Relays_Envelopes(t *testing.T) {
	req := require.New(t)
	f := newWsFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given alice connected with a header token
	conn, _, err := websocket.Dial(ctx, f.url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + f.token(t, "alice")}},
	})
	req.NoError(err)
	req.Eventually(func() bool { return f.registry.Count() == 1 }, time.Second, 5*time.Millisecond)

	// When two events are delivered
	for i := 0; i < 2; i++ {
		f.registry.Deliver(ctx, domain.Audience{"alice"}, func(seq uint64) event.Event {
			return event.ChannelRenamed{Header: event.Header{Seq: seq}, Channel: domain.Channel{ID: "c1", Name: "Lobby"}}
		})
	}

	// Then they arrive in order as JSON envelopes
	var first, second map[string]any
	req.NoError(wsjson.Read(ctx, conn, &first))
	req.NoError(wsjson.Read(ctx, conn, &second))
	req.Equal("CHANNEL_RENAMED", first["type"])
	req.Equal(map[string]any{"id": "c1", "name": "Lobby"}, first["payload"])
	req.Less(first["id"].(float64), second["id"].(float64))

	// When the client closes, alice is unregistered
	req.NoError(conn.Close(websocket.StatusNormalClosure, ""))
	req.Eventually(func() bool { return f.registry.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHandler_Query_Token(t *testing.T) {
	req := require.New(t)
	f := newWsFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, f.url+"?token="+f.token(t, "alice"), nil)
	req.NoError(err)
	defer func() { _ = conn.CloseNow() }()

	req.Eventually(func() bool { return f.registry.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHandler_Refuses(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newWsFixture(t)
		response, err := http.Get("http" + strings.TrimPrefix(f.url, "ws"))
		require.NoError(t, err)
		defer func() { _ = response.Body.Close() }()
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("unknown identity", func(t *testing.T) {
		req := require.New(t)
		f := newWsFixture(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		conn, _, err := websocket.Dial(ctx, f.url+"?token="+f.token(t, "mallory"), nil)
		req.NoError(err)

		_, _, err = conn.Read(ctx)
		req.Equal(websocket.StatusPolicyViolation, websocket.CloseStatus(err))
		req.Equal(0, f.registry.Count())
	})
}
