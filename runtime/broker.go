// Package runtime owns the live distribution state: the connection registry,
// the sequencer, and the supervised background workers sweeping it.
// It contains no business rules about who should hear about what.
package runtime

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Broker is the lifecycle owner of the registry and its heartbeat.
// It is started exactly once and stopped exactly once; extra Stop calls are no-ops.
type Broker struct {
	mu         sync.Mutex
	log        *slog.Logger
	registry   *Registry
	supervisor contract.ISupervisor
	heartbeat  *workers.HeartbeatWorker
	started    bool
	stopped    bool
	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once
}

func NewBroker(log *slog.Logger, supervisor contract.ISupervisor,
	registry *Registry, heartbeatInterval time.Duration) *Broker {
	return &Broker{
		log:        log,
		registry:   registry,
		supervisor: supervisor,
		heartbeat:  workers.NewHeartbeatWorker(log, registry, heartbeatInterval),
		done:       make(chan struct{}),
	}
}

func (b *Broker) Registry() *Registry { return b.registry }

// Start launches the supervised heartbeat in the background and returns.
func (b *Broker) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.stopped {
		return fmt.Errorf("broker: %w", errors.ErrAlreadyStarted)
	}
	b.started = true

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.supervisor.Add(b.heartbeat)

	go func() {
		defer close(b.done)
		b.supervisor.Run(runCtx)
	}()
	b.log.Info("Live broker started")
	return nil
}

// Stop cancels the heartbeat, waits for it to return, then unregisters and
// closes every handle. No keep-alive is emitted once Stop has returned.
func (b *Broker) Stop() {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.stopped = true
		started, cancel := b.started, b.cancel
		b.mu.Unlock()
		if !started {
			return
		}
		b.log.Info("Requesting live broker shutdown")
		cancel()
		b.supervisor.Stop()
		<-b.done

		// Release every transport loop still relaying to a client.
		closed := 0
		b.registry.ForEachActive(func(identity domain.Identity, handle contract.StreamHandle) {
			if b.registry.Unregister(identity.ID, handle) {
				closed++
			}
		})
		b.log.Info("Live broker stopped", "closed_handles", closed)
	})
}
