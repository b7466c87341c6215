// Package analytic prices cash-or-nothing digital calls in closed form. It is
// the fast cross-check and fallback for the Monte-Carlo engine: one Φ(d2)
// evaluation against the simulator's thousand paths.
package analytic

import (
	"math"

	gaussian "github.com/chobie/go-gaussian"
)

// sigmaFloor guards the division by σ√T when a caller passes zero volatility.
const sigmaFloor = 1e-10

// errSlices treats the 24-hour estimation window as 28 800 independent
// 2-second slices; σ/√28800 approximates the short-term standard error of the
// volatility estimate. An explicit modelling choice, tune the slice length if
// the feed cadence changes.
const errSlices = 24 * 60 * 20

var stdNormal = gaussian.NewGaussian(0, 1)

var sqrtErrDenom = math.Sqrt(errSlices)

// Band is a digital price with a ±3σ volatility-error band around it. Lower
// and Upper are the prices at the perturbed volatilities in that order; they
// are not sorted, use Ordered when a monotone band is required.
type Band struct {
	Mid   float64
	Lower float64
	Upper float64
}

// Ordered returns the band endpoints as (min, max).
func (b Band) Ordered() (float64, float64) {
	return math.Min(b.Lower, b.Upper), math.Max(b.Lower, b.Upper)
}

// Digital prices a digital call paying 1 when spot finishes above strike.
// T is time to expiry in years, sigma annualized. An expired contract returns
// a determined payoff on all three band fields.
func Digital(spot, strike, tYears, sigma float64) Band {
	if tYears <= 0 {
		payout := 0.0
		if spot > strike {
			payout = 1.0
		}
		return Band{Mid: payout, Lower: payout, Upper: payout}
	}

	sigmaEff := math.Max(sigma, sigmaFloor)
	sqrtT := math.Sqrt(tYears)
	logMoneyness := math.Log(spot / strike)

	mid := stdNormal.Cdf(d2(logMoneyness, sigmaEff, tYears, sqrtT))

	// The band perturbs volatility, not price: ±3 standard errors of σ.
	sigmaErr := sigmaEff / sqrtErrDenom
	lowSig := math.Max(sigmaEff-3*sigmaErr, sigmaFloor)
	hiSig := sigmaEff + 3*sigmaErr

	return Band{
		Mid:   mid,
		Lower: stdNormal.Cdf(d2(logMoneyness, lowSig, tYears, sqrtT)),
		Upper: stdNormal.Cdf(d2(logMoneyness, hiSig, tYears, sqrtT)),
	}
}

func d2(logMoneyness, sigma, tYears, sqrtT float64) float64 {
	return (logMoneyness - 0.5*sigma*sigma*tYears) / (sigma * sqrtT)
}
