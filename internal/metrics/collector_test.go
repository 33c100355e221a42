package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"camctl/internal/dispatch"
	"camctl/internal/stream"
)

type fixedStream stream.Stats

func (f fixedStream) Stats() stream.Stats { return stream.Stats(f) }

type fixedCommands []dispatch.CommandCount

func (f fixedCommands) Counts() []dispatch.CommandCount { return f }

func TestCollector(t *testing.T) {
	c := &Collector{
		Stream: fixedStream{State: stream.Streaming, Frames: 42, Connects: 1},
		Commands: fixedCommands{
			{Kind: "ptz", Outcome: dispatch.OutcomeOK, Total: 3},
			{Kind: "info", Outcome: dispatch.OutcomeError, Total: 1},
		},
	}

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))

	expected := `
# HELP camctl_commands_total Dispatched commands by kind and outcome.
# TYPE camctl_commands_total counter
camctl_commands_total{kind="info",outcome="error"} 1
camctl_commands_total{kind="ptz",outcome="ok"} 3
# HELP camctl_stream_connects_total Namespace connect acknowledgments seen.
# TYPE camctl_stream_connects_total counter
camctl_stream_connects_total 1
# HELP camctl_stream_frames_total Frames received on the camera channel.
# TYPE camctl_stream_frames_total counter
camctl_stream_frames_total 42
# HELP camctl_stream_state Stream session state (1 for the current state).
# TYPE camctl_stream_state gauge
camctl_stream_state{state="closed"} 0
camctl_stream_state{state="connected"} 0
camctl_stream_state{state="connecting"} 0
camctl_stream_state{state="idle"} 0
camctl_stream_state{state="streaming"} 1
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"camctl_commands_total", "camctl_stream_connects_total", "camctl_stream_frames_total", "camctl_stream_state")
	require.NoError(t, err)
}

func TestCollectorWithoutSources(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(&Collector{}))

	n, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
