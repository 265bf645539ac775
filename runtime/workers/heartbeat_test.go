package workers

import (
	"chat-live/contract"
	"chat-live/domain/event"
	"chat-live/mocks"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHeartbeatWorker_Sweep(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	var built event.Event
	registry.EXPECT().
		Broadcast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, build contract.EventBuilder) contract.Delivery {
			built = build(42)
			return contract.Delivery{Sequence: 42, Delivered: 2, Failed: 1}
		})

	worker := NewHeartbeatWorker(slog.Default(), registry, time.Second)
	worker.now = func() time.Time { return at }

	// When a sweep runs while one of three handles fails
	delivery := worker.Sweep(context.Background())

	// Then the others are still counted as delivered
	req.Equal(contract.Delivery{Sequence: 42, Delivered: 2, Failed: 1}, delivery)

	// And a UTC keep-alive stamped with the sequence id was built
	keepAlive, ok := built.(event.KeepAlive)
	req.True(ok)
	req.Equal(uint64(42), keepAlive.Sequence())
	req.Equal(at.UTC(), keepAlive.At)
	req.Equal(time.UTC, keepAlive.At.Location())
}

func TestHeartbeatWorker_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)

	var sweeps atomic.Int32
	registry.EXPECT().
		Broadcast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, build contract.EventBuilder) contract.Delivery {
			sweeps.Add(1)
			return contract.Delivery{Sequence: build(1).Sequence()}
		}).
		MinTimes(2)

	worker := NewHeartbeatWorker(slog.Default(), registry, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	req.Eventually(func() bool { return sweeps.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not stop")
	}
	after := sweeps.Load()
	time.Sleep(20 * time.Millisecond)
	req.Equal(after, sweeps.Load())
}

func TestHeartbeatWorker_Name(t *testing.T) {
	worker := NewHeartbeatWorker(slog.Default(), nil, time.Second)
	require.Equal(t, "HeartbeatWorker", contract.GetWorkerName(worker))
}
