package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	latencyTotal map[string]time.Duration
}

// Counter is one exported series.
type Counter struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
	AvgMS int64  `json:"avgMs,omitempty"`
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests []Counter `json:"requests"`
	Errors   []Counter `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		latencyTotal: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latencyTotal[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the counters sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Requests: []Counter{}, Errors: []Counter{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Snapshot{Requests: make([]Counter, 0, len(m.requestCount)), Errors: make([]Counter, 0, len(m.errorCount))}
	for key, n := range m.requestCount {
		c := Counter{Key: key, Count: n}
		if n > 0 {
			c.AvgMS = (m.latencyTotal[key] / time.Duration(n)).Milliseconds()
		}
		out.Requests = append(out.Requests, c)
	}
	for key, n := range m.errorCount {
		out.Errors = append(out.Errors, Counter{Key: key, Count: n})
	}
	sort.Slice(out.Requests, func(i, j int) bool { return out.Requests[i].Key < out.Requests[j].Key })
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Key < out.Errors[j].Key })
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
