package auth

import (
	"chat-live/domain"
	"chat-live/errors"
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// authenticatedStream overrides the context of a server stream.
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }

// StreamInterceptor handles JWT validation for incoming gRPC streams.
func (t *TokenIssuer) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		identity, err := t.authenticate(ss.Context())
		if err != nil {
			return errors.MapToGRPCError(err)
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: WithIdentity(ss.Context(), identity)})
	}
}

func (t *TokenIssuer) authenticate(ctx context.Context) (domain.Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return domain.Identity{}, errors.ErrMissingToken
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return domain.Identity{}, errors.ErrMissingToken
	}
	// Expecting the standard "Bearer <token>" format
	return t.ValidateToken(strings.TrimPrefix(values[0], "Bearer "))
}

// FromRequest authenticates an HTTP request, from the Authorization header
// or, for browsers that cannot set headers on WebSocket upgrades, the token query parameter.
func (t *TokenIssuer) FromRequest(r *http.Request) (domain.Identity, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return domain.Identity{}, errors.ErrMissingToken
	}
	return t.ValidateToken(token)
}
