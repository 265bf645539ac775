package sink

import (
	"chat-live/domain/event"
	"chat-live/errors"
	"context"
	"sync"

	"github.com/google/uuid"
)

type State int

const (
	Active State = iota
	Removed
)

func (s State) String() string {
	if s == Removed {
		return "REMOVED"
	}
	return "ACTIVE"
}

type ending int

const (
	notEnded ending = iota
	completed
	failed
)

// Handle is the buffered stream handle shared by every transport adapter.
//
// Emit never blocks: the event is queued for the transport goroutine or
// rejected with ErrBackpressure when the client falls behind. Once Removed,
// Emit returns ErrHandleRemoved and the transport loop is released via Done.
type Handle struct {
	id     string
	events chan event.Event
	done   chan struct{}

	mu           sync.Mutex
	state        State
	end          ending
	endErr       error
	onCompletion func()
	onError      func(err error)
}

func NewHandle(bufferSize int) *Handle {
	return &Handle{
		id:     uuid.NewString(),
		events: make(chan event.Event, bufferSize),
		done:   make(chan struct{}),
	}
}

func (h *Handle) ID() string { return h.id }

// Events is drained by the transport adapter.
func (h *Handle) Events() <-chan event.Event { return h.events }

// Done is closed when the handle leaves the Active state.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handle) Emit(ctx context.Context, e event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == Removed {
		return errors.ErrHandleRemoved
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case h.events <- e:
		return nil
	default:
		return errors.ErrBackpressure
	}
}

// OnCompletion installs the completion hook.
// It fires right away when the handle has already completed.
func (h *Handle) OnCompletion(fn func()) {
	h.mu.Lock()
	h.onCompletion = fn
	end := h.end
	h.mu.Unlock()
	if end == completed && fn != nil {
		fn()
	}
}

// OnError installs the error hook.
// It fires right away when the handle has already failed.
func (h *Handle) OnError(fn func(err error)) {
	h.mu.Lock()
	h.onError = fn
	end, endErr := h.end, h.endErr
	h.mu.Unlock()
	if end == failed && fn != nil {
		fn(endErr)
	}
}

// Close moves the handle to Removed without firing any hook.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked()
}

func (h *Handle) closeLocked() {
	if h.state == Removed {
		return
	}
	h.state = Removed
	close(h.done)
}

// Complete is called by the transport on a normal close.
func (h *Handle) Complete() {
	h.finish(completed, nil)
}

// Fail is called by the transport when the connection broke.
func (h *Handle) Fail(err error) {
	h.finish(failed, err)
}

// Only the first of Complete or Fail fires a hook. Hooks run outside the
// lock because they usually call back into the registry, which closes the handle.
func (h *Handle) finish(end ending, err error) {
	h.mu.Lock()
	if h.end != notEnded {
		h.mu.Unlock()
		return
	}
	h.end, h.endErr = end, err
	h.closeLocked()
	onCompletion, onError := h.onCompletion, h.onError
	h.mu.Unlock()

	switch {
	case end == completed && onCompletion != nil:
		onCompletion()
	case end == failed && onError != nil:
		onError(err)
	}
}

// Pump relays queued events to send until the client goes away, the handle
// is superseded, or send fails. It always leaves the handle terminated.
func (h *Handle) Pump(ctx context.Context, send func(e event.Event) error) error {
	for {
		select {
		case <-ctx.Done():
			h.Complete()
			return nil
		case <-h.done:
			h.Complete()
			return nil
		case evt := <-h.events:
			if err := send(evt); err != nil {
				h.Fail(err)
				return err
			}
		}
	}
}
