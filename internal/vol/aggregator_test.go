package vol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_EffectiveSigma_BothPresent(t *testing.T) {
	agg := NewDefaultAggregator(
		Const{Sigma: 0.002, Name: "1m"},
		Const{Sigma: 0.02, Name: "1h"},
		Const{Sigma: 0.04, Name: "24h"},
	)

	sigma, ok := agg.EffectiveSigma()
	require.True(t, ok)
	assert.InDelta(t, 0.8*0.04+0.2*0.02, sigma, 1e-15)
}

func TestAggregator_EffectiveSigma_Renormalizes(t *testing.T) {
	// Only the 1h source present: it takes the full re-normalized weight.
	agg := NewDefaultAggregator(
		Absent{Name: "1m"},
		Const{Sigma: 0.02, Name: "1h"},
		Absent{Name: "24h"},
	)
	sigma, ok := agg.EffectiveSigma()
	require.True(t, ok)
	assert.InDelta(t, 0.02, sigma, 1e-15)

	// Only the 24h source present.
	agg = NewDefaultAggregator(
		Absent{Name: "1m"},
		Absent{Name: "1h"},
		Const{Sigma: 0.04, Name: "24h"},
	)
	sigma, ok = agg.EffectiveSigma()
	require.True(t, ok)
	assert.InDelta(t, 0.04, sigma, 1e-15)
}

func TestAggregator_EffectiveSigma_AllAbsent(t *testing.T) {
	agg := NewDefaultAggregator(Absent{}, Absent{}, Absent{})
	_, ok := agg.EffectiveSigma()
	assert.False(t, ok, "total absence must be signalled, not returned as zero")
}

func TestAggregator_ErrorSigma_FallbackChain(t *testing.T) {
	agg := NewDefaultAggregator(
		Const{Sigma: 0.002, Name: "1m"},
		Const{Sigma: 0.02, Name: "1h"},
		Const{Sigma: 0.04, Name: "24h"},
	)
	sigma, ok := agg.ErrorSigma()
	require.True(t, ok)
	assert.Equal(t, 0.002, sigma, "freshest window wins")

	agg = NewDefaultAggregator(Absent{}, Const{Sigma: 0.02}, Const{Sigma: 0.04})
	sigma, _ = agg.ErrorSigma()
	assert.Equal(t, 0.02, sigma)

	agg = NewDefaultAggregator(Absent{}, Absent{}, Const{Sigma: 0.04})
	sigma, _ = agg.ErrorSigma()
	assert.Equal(t, 0.04, sigma)

	agg = NewDefaultAggregator(Absent{}, Absent{}, Absent{})
	_, ok = agg.ErrorSigma()
	assert.False(t, ok)
}

func TestNewAggregator_RejectsNonPositiveWeights(t *testing.T) {
	_, err := NewAggregator(Absent{}, Absent{}, Absent{}, 0, 0)
	assert.Error(t, err)

	_, err = NewAggregator(Absent{}, Absent{}, Absent{}, -0.5, 0.2)
	assert.Error(t, err)

	_, err = NewAggregator(Absent{}, Absent{}, Absent{}, 0.9, 0.1)
	assert.NoError(t, err)
}
