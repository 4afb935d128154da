// Package metrics collects routing metrics for the chain router.
//
// Routing code emits events on a buffered channel and never blocks on it. A
// dedicated goroutine folds the events into per-chain counters:
//   - Requests received, handled and left unhandled
//   - Hits per handler
//   - Routing latency with percentile calculations (P50, P95, P99)
//
// The same events also feed a private Prometheus registry so the numbers can
// be scraped.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.RouteEvent{
//		Type:     metrics.EventRequestHandled,
//		Chain:    "approval",
//		Handler:  "Director",
//		Duration: 40 * time.Microsecond,
//	})
//
//	snapshot := collector.Snapshot()
//
// Cancelling the context drains events already queued before the collector
// goroutine exits.
package metrics
