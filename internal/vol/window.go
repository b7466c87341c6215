package vol

import (
	"math"
	"sync"
	"time"
)

const secsPerYear = 365 * 24 * 3600

// Window is a bounded ring of spot ticks from which realized volatility over
// arbitrary trailing spans is computed. An external feed goroutine appends
// ticks; readers take consistent snapshots under the lock. The window owns no
// network connection itself.
type Window struct {
	mu      sync.Mutex
	refresh time.Duration
	ticks   []tick
	head    int
	full    bool
}

type tick struct {
	at    time.Time
	price float64
}

// NewWindow sizes the ring for the given retention at the given feed cadence.
// A one-second cadence over 24 hours keeps 86400 ticks.
func NewWindow(retention, refresh time.Duration) *Window {
	capacity := int(retention / refresh)
	if capacity < 2 {
		capacity = 2
	}
	return &Window{
		refresh: refresh,
		ticks:   make([]tick, capacity),
	}
}

// Record appends one spot observation. Non-positive prices are discarded;
// the feed occasionally emits zero rows around reconnects.
func (w *Window) Record(at time.Time, price float64) {
	if price <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks[w.head] = tick{at: at, price: price}
	w.head++
	if w.head == len(w.ticks) {
		w.head = 0
		w.full = true
	}
}

// Spot returns the most recent price, false when no tick has arrived yet.
func (w *Window) Spot() (float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	last := w.head - 1
	if last < 0 {
		if !w.full {
			return 0, false
		}
		last = len(w.ticks) - 1
	}
	t := w.ticks[last]
	if t.price == 0 {
		return 0, false
	}
	return t.price, true
}

// Latest returns the most recent observation with its timestamp.
func (w *Window) Latest() (time.Time, float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	last := w.head - 1
	if last < 0 {
		if !w.full {
			return time.Time{}, 0, false
		}
		last = len(w.ticks) - 1
	}
	t := w.ticks[last]
	if t.price == 0 {
		return time.Time{}, 0, false
	}
	return t.at, t.price, true
}

// RealizedVol computes the annualized standard deviation of log returns over
// the trailing span, scaled by the feed cadence. Fewer than two in-span
// ticks means no estimate, reported as absent rather than zero: zero is a
// legitimate volatility, absence is not.
func (w *Window) RealizedVol(span time.Duration) (float64, bool) {
	cutoff := time.Now().Add(-span)

	w.mu.Lock()
	prices := w.pricesSinceLocked(cutoff)
	w.mu.Unlock()

	if len(prices) < 2 {
		return 0, false
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}
	mu := 0.0
	for _, r := range returns {
		mu += r
	}
	mu /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mu
		variance += d * d
	}
	variance /= float64(len(returns))

	annualize := math.Sqrt(secsPerYear / w.refresh.Seconds())
	return math.Sqrt(variance) * annualize, true
}

// pricesSinceLocked returns in-span prices in arrival order. Caller holds mu.
func (w *Window) pricesSinceLocked(cutoff time.Time) []float64 {
	n := w.head
	start := 0
	if w.full {
		n = len(w.ticks)
		start = w.head
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		t := w.ticks[(start+i)%len(w.ticks)]
		if t.price > 0 && !t.at.Before(cutoff) {
			out = append(out, t.price)
		}
	}
	return out
}
