package server

import (
	"chat-live/auth"
	"chat-live/contract"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/proto/live"
	"chat-live/sink"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type LiveServer struct {
	registry             contract.IRegistry
	connectionBufferSize int
	log                  *slog.Logger
}

func NewLiveServer(log *slog.Logger, registry contract.IRegistry, connectionBufferSize int) *LiveServer {
	return &LiveServer{registry: registry, connectionBufferSize: connectionBufferSize, log: log}
}

// Subscribe establishes a long-lived stream for real-time delivery.
// It registers a dedicated stream handle for the authenticated identity and
// blocks until the client disconnects, the handle is superseded by a newer
// connection of the same identity, or a send fails.
// The handle's hooks unregister it in every case.
func (s *LiveServer) Subscribe(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx := stream.Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "no identity on stream")
	}

	handle := sink.NewHandle(s.connectionBufferSize)
	if _, err := s.registry.Register(ctx, handle, identity); err != nil {
		s.log.Warn("Live subscription refused", "user_id", identity.ID, "error", err)
		return errors.MapToGRPCError(err)
	}
	s.log.Info("Client subscribed", "user_id", identity.ID, "handle", handle.ID())

	err := handle.Pump(ctx, func(e event.Event) error {
		msg, err := live.ToStruct(e)
		if err != nil {
			return err
		}
		return stream.SendMsg(msg)
	})
	if err != nil {
		s.log.Error("failed to push event to stream", "user_id", identity.ID, "error", err)
		return err
	}
	s.log.Info("Client unsubscribed", "user_id", identity.ID, "handle", handle.ID())
	return nil
}

var _ live.LiveServiceServer = (*LiveServer)(nil)
