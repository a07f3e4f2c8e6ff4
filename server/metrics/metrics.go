// Package metrics exposes server counters through expvar (/debug/vars).
package metrics

import (
	"expvar"
	"strings"
)

// CounterVec is a labelled counter, one expvar.Map key per label set.
type CounterVec struct{ m *expvar.Map }

// Counter is a single labelled series of a CounterVec.
type Counter struct {
	m   *expvar.Map
	key string
}

func NewCounterVec(name string) CounterVec {
	return CounterVec{m: expvar.NewMap(name)}
}

func (c CounterVec) WithLabelValues(values ...string) Counter {
	return Counter{m: c.m, key: strings.Join(values, ",")}
}

// Value reads the current count for a label set, zero if never incremented.
func (c CounterVec) Value(values ...string) int64 {
	v, ok := c.m.Get(strings.Join(values, ",")).(*expvar.Int)
	if !ok {
		return 0
	}
	return v.Value()
}

func (c Counter) Inc() { c.m.Add(c.key, 1) }

var (
	// Requests counts API calls by route and outcome ("ok" or an error code).
	Requests = NewCounterVec("snake_api_requests_total")
	// Upstream counts failed calls to Helius and DexScreener by source.
	Upstream = NewCounterVec("snake_upstream_errors_total")
	// Scores counts accepted submissions by player kind ("guest", "user").
	Scores = NewCounterVec("snake_scores_total")

	// LiveClients is the number of connected leaderboard websockets.
	LiveClients = expvar.NewInt("snake_live_clients")
)
