// Package pricing turns settlement samples into bid/ask quotes: empirical
// payoff probabilities per contract, directional cent rounding into a spread,
// and the batch engine that prices a contract ladder off the simulation cache.
package pricing

import (
	"github.com/sawpanic/binquote/internal/contracts"
)

// Probability returns the empirical fraction of paths whose settlement value
// satisfies the contract payoff condition. This is a plug-in CDF evaluation:
// zero qualifying paths is probability 0, not an error.
func Probability(sample []float64, c contracts.Contract) float64 {
	if len(sample) == 0 {
		return 0
	}
	hits := 0
	switch c.Direction {
	case contracts.Above:
		for _, s := range sample {
			if s >= c.Strike {
				hits++
			}
		}
	case contracts.Below:
		for _, s := range sample {
			if s <= c.Strike {
				hits++
			}
		}
	case contracts.Between:
		for _, s := range sample {
			if s >= c.Low && s <= c.High {
				hits++
			}
		}
	}
	return float64(hits) / float64(len(sample))
}
