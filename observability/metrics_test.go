package observability

import (
	"chat-live/domain/event"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLiveMetrics_ObserveFanout(t *testing.T) {
	req := require.New(t)
	metrics := NewLiveMetrics(prometheus.NewRegistry())

	// When a message reaches two listeners and fails for one
	metrics.ObserveFanout(event.NewMessageType, 2, 1)
	// And a keep-alive sweep completes
	metrics.ObserveFanout(event.KeepAliveType, 3, 0)

	// Then counters reflect both fan-outs
	req.Equal(float64(1), testutil.ToFloat64(metrics.published.WithLabelValues(string(event.NewMessageType))))
	req.Equal(float64(2), testutil.ToFloat64(metrics.delivered.WithLabelValues(string(event.NewMessageType))))
	req.Equal(float64(1), testutil.ToFloat64(metrics.deliveryFailures.WithLabelValues(string(event.NewMessageType))))
	req.Equal(float64(1), testutil.ToFloat64(metrics.heartbeatSweeps))
}

func TestLiveMetrics_NilIsNoop(t *testing.T) {
	var metrics *LiveMetrics

	metrics.SetActiveListeners(3)
	metrics.ObserveFanout(event.KeepAliveType, 1, 0)
	metrics.IncrReplacements()
}
