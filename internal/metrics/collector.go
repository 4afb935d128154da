package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type EventType string

const (
	EventRequestReceived  EventType = "request_received"
	EventRequestHandled   EventType = "request_handled"
	EventRequestUnhandled EventType = "request_unhandled"
)

type RouteEvent struct {
	Type      EventType
	Timestamp time.Time
	Chain     string
	Handler   string
	Duration  time.Duration
}

type Collector struct {
	eventCh  chan RouteEvent
	done     chan struct{}
	metrics  *Metrics
	exporter *exporter
	logger   *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1
	}

	return &Collector{
		eventCh:  make(chan RouteEvent, bufferSize),
		done:     make(chan struct{}),
		metrics:  NewMetrics(),
		exporter: newExporter(),
		logger:   logger,
	}
}

func (c *Collector) EventChannel() chan<- RouteEvent {
	return c.eventCh
}

// Emit queues an event without blocking. It reports false when the buffer is
// full and the event was dropped.
func (c *Collector) Emit(event RouteEvent) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
		return true
	default:
		return false
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the collector goroutine has drained and exited.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event RouteEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementReceived(event.Chain)

	case EventRequestHandled:
		c.metrics.RecordHandled(event.Chain, event.Handler, event.Duration)

	case EventRequestUnhandled:
		c.metrics.RecordUnhandled(event.Chain, event.Duration)

	default:
		c.logger.Debug("Ignoring unknown metric event", slog.String("type", string(event.Type)))
		return
	}

	c.exporter.observe(event)
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

// Registry exposes the Prometheus registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.exporter.registry
}
