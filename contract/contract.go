//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// StreamHandle is one live outbound channel to one connected client.
// Emit must hand the event over without blocking on the network.
// The two hooks are optional slots fired by the transport adapter when the
// connection ends normally or breaks.
type StreamHandle interface {
	ID() string
	Emit(ctx context.Context, e event.Event) error
	OnCompletion(fn func())
	OnError(fn func(err error))
	Close()
}

type IdentityResolver interface {
	Resolve(ctx context.Context, id domain.UserID) (domain.Identity, error)
}

type MembershipReader interface {
	ChannelMembers(ctx context.Context, channelID domain.ChannelID) (domain.Audience, error)
	CoMembers(ctx context.Context, userID domain.UserID) (domain.Audience, error)
}

// Delivery reports the outcome of one fan-out.
type Delivery struct {
	Sequence  uint64
	Delivered int
	Failed    int
}

type EventBuilder func(seq uint64) event.Event

type IRegistry interface {
	Register(ctx context.Context, handle StreamHandle, identity domain.Identity) (StreamHandle, error)
	Unregister(id domain.UserID, handle StreamHandle) bool
	ForEachActive(fn func(identity domain.Identity, handle StreamHandle))
	Deliver(ctx context.Context, audience domain.Audience, build EventBuilder) Delivery
	Broadcast(ctx context.Context, build EventBuilder) Delivery
	Count() int
}
