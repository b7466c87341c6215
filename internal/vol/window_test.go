package vol

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_SpotAndLatest(t *testing.T) {
	w := NewWindow(time.Minute, time.Second)

	_, ok := w.Spot()
	assert.False(t, ok)

	now := time.Now()
	w.Record(now.Add(-2*time.Second), 100.0)
	w.Record(now.Add(-time.Second), 101.0)
	w.Record(now, 102.0)

	spot, ok := w.Spot()
	require.True(t, ok)
	assert.Equal(t, 102.0, spot)

	at, price, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, 102.0, price)
	assert.Equal(t, now, at)
}

func TestWindow_RecordDiscardsJunk(t *testing.T) {
	w := NewWindow(time.Minute, time.Second)
	w.Record(time.Now(), 0)
	w.Record(time.Now(), -5)
	_, ok := w.Spot()
	assert.False(t, ok)
}

func TestWindow_RealizedVol_NeedsTwoTicks(t *testing.T) {
	w := NewWindow(time.Minute, time.Second)
	_, ok := w.RealizedVol(time.Minute)
	assert.False(t, ok)

	w.Record(time.Now(), 100)
	_, ok = w.RealizedVol(time.Minute)
	assert.False(t, ok)

	w.Record(time.Now(), 101)
	_, ok = w.RealizedVol(time.Minute)
	assert.True(t, ok)
}

func TestWindow_RealizedVol_ConstantPriceIsZero(t *testing.T) {
	w := NewWindow(time.Minute, time.Second)
	now := time.Now()
	for i := 0; i < 30; i++ {
		w.Record(now.Add(time.Duration(i-30)*time.Second), 100.0)
	}
	sigma, ok := w.RealizedVol(time.Minute)
	require.True(t, ok)
	assert.Equal(t, 0.0, sigma)
}

func TestWindow_RealizedVol_AnnualizedScale(t *testing.T) {
	// Alternating fixed-size log returns: stddev equals the absolute return,
	// annualization multiplies by sqrt(secsPerYear / refresh).
	w := NewWindow(time.Hour, time.Second)
	now := time.Now()
	price := 100.0
	step := math.Exp(0.001)
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			price *= step
		} else {
			price /= step
		}
		w.Record(now.Add(time.Duration(i-100)*time.Second), price)
	}

	sigma, ok := w.RealizedVol(time.Hour)
	require.True(t, ok)

	want := 0.001 * math.Sqrt(365*24*3600)
	// The alternating series has a tiny non-zero mean with an odd return
	// count; allow one percent.
	assert.InDelta(t, want, sigma, want*0.01)
}

func TestWindow_RealizedVol_SpanFiltering(t *testing.T) {
	w := NewWindow(time.Hour, time.Second)
	now := time.Now()

	// Old noisy region, outside the queried span.
	w.Record(now.Add(-30*time.Minute), 100)
	w.Record(now.Add(-29*time.Minute), 150)

	// Recent flat region.
	for i := 0; i < 20; i++ {
		w.Record(now.Add(time.Duration(i-20)*time.Second), 120)
	}

	sigma, ok := w.RealizedVol(time.Minute)
	require.True(t, ok)
	assert.Equal(t, 0.0, sigma, "out-of-span ticks must not contaminate the estimate")
}

func TestWindow_RingWraps(t *testing.T) {
	w := NewWindow(4*time.Second, time.Second)
	now := time.Now()
	for i := 0; i < 10; i++ {
		w.Record(now.Add(time.Duration(i-10)*time.Second), float64(100+i))
	}
	spot, ok := w.Spot()
	require.True(t, ok)
	assert.Equal(t, 109.0, spot)

	// Only the retained ticks participate.
	sigma, ok := w.RealizedVol(time.Hour)
	require.True(t, ok)
	assert.Greater(t, sigma, 0.0)
}
