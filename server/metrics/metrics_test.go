package metrics

import "testing"

func TestCounterVec(t *testing.T) {
	c := NewCounterVec("test_counter_vec")
	c.WithLabelValues("wallet", "ok").Inc()
	c.WithLabelValues("wallet", "ok").Inc()
	c.WithLabelValues("prices", "PRICE_FETCH").Inc()

	if got := c.Value("wallet", "ok"); got != 2 {
		t.Fatalf("wallet,ok = %d, want 2", got)
	}
	if got := c.Value("prices", "PRICE_FETCH"); got != 1 {
		t.Fatalf("prices,PRICE_FETCH = %d, want 1", got)
	}
	if got := c.Value("missing"); got != 0 {
		t.Fatalf("missing = %d, want 0", got)
	}
}
