package server

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/mocks"
	"chat-live/proto/live"
	"chat-live/runtime"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const secret = "a-test-secret-of-sufficient-length"

type liveFixture struct {
	registry *runtime.Registry
	issuer   *auth.TokenIssuer
	conn     *grpc.ClientConn
}

func newLiveFixture(t *testing.T) *liveFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIdentityResolver(ctrl)
	resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id domain.UserID) (domain.Identity, error) {
			if id == "alice" || id == "bob" {
				return domain.Identity{ID: id, Name: string(id)}, nil
			}
			return domain.Identity{}, errors.ErrUnknownIdentity
		}).
		AnyTimes()

	log := slog.Default()
	f := &liveFixture{
		registry: runtime.NewRegistry(log, resolver, runtime.NewSequencer(), nil),
		issuer:   auth.NewTokenIssuer(secret, time.Hour),
	}

	listener := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(grpc.StreamInterceptor(f.issuer.StreamInterceptor()))
	live.RegisterLiveServiceServer(grpcServer, NewLiveServer(log, f.registry, 16))
	go func() { _ = grpcServer.Serve(listener) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	f.conn = conn
	return f
}

func (f *liveFixture) subscribe(t *testing.T, ctx context.Context, id domain.UserID) *live.EnvelopeStream {
	t.Helper()
	token, err := f.issuer.GenerateToken(domain.Identity{ID: id})
	require.NoError(t, err)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	stream, err := live.Subscribe(ctx, f.conn)
	require.NoError(t, err)
	return stream
}

func TestLiveServer_Streams_Addressed_Events(t *testing.T) {
	req := require.New(t)
	f := newLiveFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Given alice subscribed
	stream := f.subscribe(t, ctx, "alice")
	req.Eventually(func() bool { return f.registry.Count() == 1 }, time.Second, 5*time.Millisecond)

	// When an event is addressed to alice and one to bob
	f.registry.Deliver(ctx, domain.Audience{"bob"}, func(seq uint64) event.Event {
		return event.ChannelRenamed{Header: event.Header{Seq: seq}, Channel: domain.Channel{ID: "c", Name: "B"}}
	})
	delivery := f.registry.Deliver(ctx, domain.Audience{"alice"}, func(seq uint64) event.Event {
		return event.UsernameChanged{Header: event.Header{Seq: seq}, User: domain.Identity{ID: "bob", Name: "Robert"}}
	})

	// Then alice receives only her own
	env, err := stream.Recv()
	req.NoError(err)
	req.Equal(delivery.Sequence, env.ID)
	req.Equal(event.UsernameChangedType, env.Type)
	req.Equal(map[string]any{"id": "bob", "name": "Robert"}, env.Payload)

	// When the client goes away, the registration is released
	cancel()
	req.Eventually(func() bool { return f.registry.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLiveServer_Superseded_Stream_Ends(t *testing.T) {
	req := require.New(t)
	f := newLiveFixture(t)
	ctx := context.Background()

	first := f.subscribe(t, ctx, "alice")
	req.Eventually(func() bool { return f.registry.Count() == 1 }, time.Second, 5*time.Millisecond)

	// When alice connects again
	second := f.subscribe(t, ctx, "bob")
	req.Eventually(func() bool { return f.registry.Count() == 2 }, time.Second, 5*time.Millisecond)
	third := f.subscribe(t, ctx, "alice")
	_ = second

	// Then the first stream is closed by the server
	done := make(chan error, 1)
	go func() {
		_, err := first.Recv()
		done <- err
	}()
	select {
	case err := <-done:
		req.Error(err)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded stream still open")
	}

	// And the new one receives events
	f.registry.Deliver(ctx, domain.Audience{"alice"}, func(seq uint64) event.Event {
		return event.KeepAlive{Header: event.Header{Seq: seq}, At: time.Now()}
	})
	env, err := third.Recv()
	req.NoError(err)
	req.Equal(event.KeepAliveType, env.Type)
	req.Equal(2, f.registry.Count())
}

func TestLiveServer_Refuses(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newLiveFixture(t)
		stream, err := live.Subscribe(context.Background(), f.conn)
		require.NoError(t, err)

		_, err = stream.Recv()

		require.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("unknown identity", func(t *testing.T) {
		f := newLiveFixture(t)
		stream := f.subscribe(t, context.Background(), "mallory")

		_, err := stream.Recv()

		require.Equal(t, codes.NotFound, status.Code(err))
		require.Equal(t, 0, f.registry.Count())
	})
}
