package pricing

import "math"

// Spread combines the probability estimates taken at the two perturbed
// horizons into a bid/ask pair with directional cent rounding: bid floors the
// smaller estimate, ask ceils the larger. bid <= ask holds by construction
// even when both estimates coincide.
func Spread(pA, pB float64) (bid, ask float64) {
	bid = math.Floor(math.Min(pA, pB)*100) / 100
	ask = math.Ceil(math.Max(pA, pB)*100) / 100
	return bid, ask
}

// PerturbHorizon returns the two horizons (base-jitter, base+jitter) whose
// probability estimates feed Spread. The horizon pair proxies pricing
// uncertainty near expiry; the lower horizon clamps at zero, meaning
// immediate settlement at the current price.
func PerturbHorizon(base, jitter int) (low, high int) {
	low = base - jitter
	if low < 0 {
		low = 0
	}
	return low, base + jitter
}
