package garch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate_Stationary(t *testing.T) {
	p := Params{Omega: 1e-6, Alpha: 0.05, Beta: 0.90}
	require.NoError(t, p.Validate())
	assert.Greater(t, p.UnconditionalVariance(), 0.0)
	assert.InDelta(t, 2e-5, p.UnconditionalVariance(), 1e-12)
}

func TestParams_Validate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"non-stationary", Params{Omega: 1e-6, Alpha: 0.5, Beta: 0.5}},
		{"explosive", Params{Omega: 1e-6, Alpha: 0.6, Beta: 0.6}},
		{"zero omega", Params{Omega: 0, Alpha: 0.05, Beta: 0.9}},
		{"negative omega", Params{Omega: -1e-6, Alpha: 0.05, Beta: 0.9}},
		{"negative alpha", Params{Omega: 1e-6, Alpha: -0.1, Beta: 0.9}},
		{"negative beta", Params{Omega: 1e-6, Alpha: 0.05, Beta: -0.9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.p.Validate())
		})
	}
}

func TestParams_NextVariance_Recursion(t *testing.T) {
	p := Params{Omega: 1e-6, Alpha: 0.05, Beta: 0.90}

	v := p.UnconditionalVariance()
	// At the unconditional variance with r2 == v the recursion is a fixed point.
	next := p.NextVariance(v, v)
	assert.InDelta(t, v, next, 1e-15)
}

func TestParams_NextVariance_Floor(t *testing.T) {
	// Tiny omega with zero feedback would otherwise collapse below the floor.
	p := Params{Omega: 1e-300, Alpha: 0.0, Beta: 0.0}
	v := p.NextVariance(0, 0)
	assert.GreaterOrEqual(t, v, 1e-10)
}
