package workers

import (
	"chat-live/contract"
	"chat-live/domain/event"
	"context"
	"log/slog"
	"time"
)

// HeartbeatWorker sweeps every registered stream handle with a KeepAlive so
// idle connections are not reaped by proxies or clients.
type HeartbeatWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
	now      func() time.Time
}

func NewHeartbeatWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:      log,
		registry: registry,
		interval: interval,
		now:      time.Now,
	}
}

// Run executes the main loop of the worker, sending a keep-alive every interval.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep delivers one KeepAlive to every registered handle.
// A failing handle is skipped by the registry, the rest still receive it.
func (w *HeartbeatWorker) Sweep(ctx context.Context) contract.Delivery {
	at := w.now().UTC()
	delivery := w.registry.Broadcast(ctx, func(seq uint64) event.Event {
		return event.KeepAlive{Header: event.Header{Seq: seq}, At: at}
	})
	if delivery.Failed > 0 {
		w.log.Debug("Heartbeat sweep with failures",
			"seq", delivery.Sequence,
			"delivered", delivery.Delivered,
			"failed", delivery.Failed)
	}
	return delivery
}
