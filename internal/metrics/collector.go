package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"camctl/internal/dispatch"
	"camctl/internal/stream"
)

type StreamSource interface {
	Stats() stream.Stats
}

type CommandSource interface {
	Counts() []dispatch.CommandCount
}

// Collector exposes viewer state at scrape time. Either source may be nil.
type Collector struct {
	Stream   StreamSource
	Commands CommandSource
	Mutex    sync.Mutex
}

var (
	scrapeDurationDesc = prometheus.NewDesc(
		"camctl_scrape_duration_seconds", "Time taken to collect viewer state.", nil, nil,
	)
	streamStateDesc = prometheus.NewDesc(
		"camctl_stream_state", "Stream session state (1 for the current state).", []string{"state"}, nil,
	)
	streamFramesDesc = prometheus.NewDesc(
		"camctl_stream_frames_total", "Frames received on the camera channel.", nil, nil,
	)
	streamConnectsDesc = prometheus.NewDesc(
		"camctl_stream_connects_total", "Namespace connect acknowledgments seen.", nil, nil,
	)
	commandsDesc = prometheus.NewDesc(
		"camctl_commands_total", "Dispatched commands by kind and outcome.", []string{"kind", "outcome"}, nil,
	)
)

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- scrapeDurationDesc
	ch <- streamStateDesc
	ch <- streamFramesDesc
	ch <- streamConnectsDesc
	ch <- commandsDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()

	if c.Stream != nil {
		stats := c.Stream.Stats()
		for _, st := range stream.States {
			val := 0.0
			if st == stats.State {
				val = 1.0
			}
			ch <- prometheus.MustNewConstMetric(streamStateDesc, prometheus.GaugeValue, val, st.String())
		}
		ch <- prometheus.MustNewConstMetric(streamFramesDesc, prometheus.CounterValue, float64(stats.Frames))
		ch <- prometheus.MustNewConstMetric(streamConnectsDesc, prometheus.CounterValue, float64(stats.Connects))
	}

	if c.Commands != nil {
		for _, cnt := range c.Commands.Counts() {
			ch <- prometheus.MustNewConstMetric(commandsDesc, prometheus.CounterValue, float64(cnt.Total), cnt.Kind, cnt.Outcome)
		}
	}

	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}
