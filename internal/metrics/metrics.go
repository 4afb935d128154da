package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex     sync.RWMutex
	received  map[string]int64
	handled   map[string]int64
	unhandled map[string]int64
	hits      map[string]map[string]int64
	latencies map[string][]time.Duration
	startTime time.Time
}

type Snapshot struct {
	TotalRequests int64                   `json:"total_requests"`
	Uptime        time.Duration           `json:"uptime"`
	Chains        map[string]ChainMetrics `json:"chains"`
}

type ChainMetrics struct {
	Received   int64            `json:"received"`
	Handled    int64            `json:"handled"`
	Unhandled  int64            `json:"unhandled"`
	Handlers   map[string]int64 `json:"handlers"`
	AvgLatency time.Duration    `json:"avg_latency"`
	P50Latency time.Duration    `json:"p50_latency"`
	P95Latency time.Duration    `json:"p95_latency"`
	P99Latency time.Duration    `json:"p99_latency"`
}

func (m *Metrics) IncrementReceived(chain string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.received[chain]++
}

func (m *Metrics) RecordHandled(chain, handler string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.handled[chain]++
	if m.hits[chain] == nil {
		m.hits[chain] = make(map[string]int64)
	}
	m.hits[chain][handler]++
	m.recordLatency(chain, duration)
}

func (m *Metrics) RecordUnhandled(chain string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.unhandled[chain]++
	m.recordLatency(chain, duration)
}

// recordLatency must be called with the write lock held.
func (m *Metrics) recordLatency(chain string, duration time.Duration) {
	m.latencies[chain] = append(m.latencies[chain], duration)

	if len(m.latencies[chain]) > maxSamples {
		m.latencies[chain] = m.latencies[chain][1:]
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Chains: make(map[string]ChainMetrics),
	}

	allChains := make(map[string]bool)
	for _, counts := range []map[string]int64{m.received, m.handled, m.unhandled} {
		for chain := range counts {
			allChains[chain] = true
		}
	}

	for chain := range allChains {
		snap.TotalRequests += m.received[chain]

		cm := ChainMetrics{
			Received:  m.received[chain],
			Handled:   m.handled[chain],
			Unhandled: m.unhandled[chain],
			Handlers:  make(map[string]int64, len(m.hits[chain])),
		}

		for handler, n := range m.hits[chain] {
			cm.Handlers[handler] = n
		}

		durations := m.latencies[chain]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			cm.AvgLatency = average(sorted)
			cm.P50Latency = percentile(sorted, 0.50)
			cm.P95Latency = percentile(sorted, 0.95)
			cm.P99Latency = percentile(sorted, 0.99)
		}

		snap.Chains[chain] = cm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		received:  make(map[string]int64),
		handled:   make(map[string]int64),
		unhandled: make(map[string]int64),
		hits:      make(map[string]map[string]int64),
		latencies: make(map[string][]time.Duration),
		startTime: time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
