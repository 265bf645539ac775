package runtime

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/observability"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
)

type session struct {
	identity domain.Identity
	handle   contract.StreamHandle
}

// Registry maps each connected identity to its single active stream handle.
//
// mu guards the sessions map and every read of it, Count included.
// publishMu serializes sequence stamping with the hand-off to handles, so any
// listener receives ids in increasing order. Fan-out works on a snapshot and
// never holds mu while emitting.
type Registry struct {
	mu        sync.RWMutex
	publishMu sync.Mutex
	log       *slog.Logger
	resolver  contract.IdentityResolver
	sequencer *Sequencer
	metrics   *observability.LiveMetrics
	sessions  map[domain.UserID]session
}

func NewRegistry(log *slog.Logger, resolver contract.IdentityResolver,
	sequencer *Sequencer, metrics *observability.LiveMetrics) *Registry {
	return &Registry{
		log:       log,
		resolver:  resolver,
		sequencer: sequencer,
		metrics:   metrics,
		sessions:  make(map[domain.UserID]session),
	}
}

// Register installs handle as the active handle of identity and wires its
// completion and error hooks to Unregister.
// A previous handle of the same identity is superseded and closed.
func (r *Registry) Register(ctx context.Context, handle contract.StreamHandle,
	identity domain.Identity) (contract.StreamHandle, error) {
	resolved, err := r.resolver.Resolve(ctx, identity.ID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnknownIdentity) {
			return nil, fmt.Errorf("register %q: %w", identity.ID, err)
		}
		return nil, fmt.Errorf("register %q: resolve identity: %w", identity.ID, err)
	}

	r.mu.Lock()
	previous, replaced := r.sessions[resolved.ID]
	r.sessions[resolved.ID] = session{identity: resolved, handle: handle}
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveListeners(count)
	if replaced && previous.handle != handle {
		r.log.Info("Live connection superseded",
			"user_id", resolved.ID,
			"previous_handle", previous.handle.ID(),
			"handle", handle.ID())
		r.metrics.IncrReplacements()
		previous.handle.Close()
	}

	// Wired after install: a handle that already ended fires its hook right away.
	handle.OnCompletion(func() {
		r.Unregister(resolved.ID, handle)
	})
	handle.OnError(func(err error) {
		r.log.Debug("Live connection broke", "user_id", resolved.ID, "handle", handle.ID(), "error", err)
		r.Unregister(resolved.ID, handle)
	})

	r.log.Debug("Live connection registered", "user_id", resolved.ID, "handle", handle.ID())
	return handle, nil
}

// Unregister removes the entry of id only if it still refers to handle.
// An absent or superseded entry is left untouched and false is returned.
func (r *Registry) Unregister(id domain.UserID, handle contract.StreamHandle) bool {
	r.mu.Lock()
	current, ok := r.sessions[id]
	if !ok || current.handle != handle {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveListeners(count)
	handle.Close()
	r.log.Debug("Live connection removed", "user_id", id, "handle", handle.ID())
	return true
}

// ForEachActive calls fn for every handle of a snapshot taken under the lock.
func (r *Registry) ForEachActive(fn func(identity domain.Identity, handle contract.StreamHandle)) {
	for _, s := range r.snapshotAll() {
		fn(s.identity, s.handle)
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Deliver stamps the next sequence id and hands the event to every
// registered member of audience. Identities outside audience receive nothing.
func (r *Registry) Deliver(ctx context.Context, audience domain.Audience,
	build contract.EventBuilder) contract.Delivery {
	r.publishMu.Lock()
	defer r.publishMu.Unlock()
	return r.fanout(ctx, r.snapshotOf(audience), build)
}

// Broadcast is Deliver to every registered identity.
func (r *Registry) Broadcast(ctx context.Context, build contract.EventBuilder) contract.Delivery {
	r.publishMu.Lock()
	defer r.publishMu.Unlock()
	return r.fanout(ctx, r.snapshotAll(), build)
}

func (r *Registry) snapshotAll() []session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]session, 0, len(r.sessions))
	for _, s := range r.sessions {
		res = append(res, s)
	}
	return res
}

// snapshotOf never widens to everyone: an empty audience selects nobody.
func (r *Registry) snapshotOf(audience domain.Audience) []session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []session
	for _, id := range domain.NewAudience(audience...) {
		if s, ok := r.sessions[id]; ok {
			res = append(res, s)
		}
	}
	return res
}

func (r *Registry) fanout(ctx context.Context, targets []session, build contract.EventBuilder) contract.Delivery {
	evt := build(r.sequencer.Next())
	delivery := contract.Delivery{Sequence: evt.Sequence()}
	for _, s := range targets {
		if err := r.emit(ctx, s.handle, evt); err != nil {
			delivery.Failed++
			r.logDeliveryFailure(s.identity.ID, evt, err)
			continue
		}
		delivery.Delivered++
	}
	r.metrics.ObserveFanout(evt.Type(), delivery.Delivered, delivery.Failed)
	return delivery
}

// emit isolates one recipient: a panicking handle becomes an error.
func (r *Registry) emit(ctx context.Context, handle contract.StreamHandle, evt event.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("emit panic: %v", rec)
		}
	}()
	return handle.Emit(ctx, evt)
}

func (r *Registry) logDeliveryFailure(id domain.UserID, evt event.Event, err error) {
	attrs := []any{"user_id", id, "seq", evt.Sequence(), "type", evt.Type(), "error", err}
	if stderrors.Is(err, errors.ErrHandleRemoved) {
		r.log.Debug("Skipping removed live connection", attrs...)
		return
	}
	r.log.Warn("Live delivery failed", attrs...)
}
