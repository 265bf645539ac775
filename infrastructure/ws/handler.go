// Package ws implements the WebSocket adapter for live delivery.
package ws

import (
	"chat-live/auth"
	"chat-live/contract"
	"chat-live/domain/event"
	"chat-live/sink"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Handler upgrades authenticated requests and relays live events as JSON text frames.
type Handler struct {
	log                  *slog.Logger
	registry             contract.IRegistry
	issuer               *auth.TokenIssuer
	connectionBufferSize int
	writeTimeout         time.Duration
}

func NewHandler(log *slog.Logger, registry contract.IRegistry, issuer *auth.TokenIssuer,
	connectionBufferSize int, writeTimeout time.Duration) *Handler {
	return &Handler{
		log:                  log,
		registry:             registry,
		issuer:               issuer,
		connectionBufferSize: connectionBufferSize,
		writeTimeout:         writeTimeout,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.issuer.FromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		h.log.Error("websocket accept failed", "error", err)
		return
	}

	handle := sink.NewHandle(h.connectionBufferSize)
	if _, err := h.registry.Register(r.Context(), handle, identity); err != nil {
		h.log.Warn("Live subscription refused", "user_id", identity.ID, "error", err)
		_ = conn.Close(websocket.StatusPolicyViolation, "unknown identity")
		return
	}
	h.log.Info("websocket connected", "user_id", identity.ID, "remote", r.RemoteAddr)

	// Clients never send frames; CloseRead cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	err = handle.Pump(ctx, func(e event.Event) error {
		env, err := event.ToEnvelope(e)
		if err != nil {
			return err
		}
		writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
		defer cancel()
		return wsjson.Write(writeCtx, conn, env)
	})
	if err != nil {
		h.log.Debug("websocket write failed", "user_id", identity.ID, "error", err)
		_ = conn.Close(websocket.StatusInternalError, "delivery failed")
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "")
	h.log.Info("websocket disconnected", "user_id", identity.ID)
}
