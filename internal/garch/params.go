package garch

import (
	"fmt"
)

// varianceFloor prevents degenerate zero-variance paths. A path whose
// variance collapses to zero would draw zero log-returns forever and can
// propagate NaN through sqrt on negative rounding error.
const varianceFloor = 1e-10

// Params holds a fitted GARCH(1,1) parameter triple. Fitting happens in an
// external batch job; the engine only consumes the result and treats it as
// read-only configuration for the duration of a pricing tick.
type Params struct {
	Omega float64 `json:"omega" yaml:"omega"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
}

// Validate checks the stationarity constraints. A non-stationary triple makes
// the unconditional variance non-positive or undefined and is a fatal
// configuration error, never something to price through.
func (p Params) Validate() error {
	if p.Omega <= 0 {
		return fmt.Errorf("garch: omega must be positive, got %g", p.Omega)
	}
	if p.Alpha < 0 || p.Beta < 0 {
		return fmt.Errorf("garch: alpha and beta must be non-negative, got alpha=%g beta=%g", p.Alpha, p.Beta)
	}
	if p.Alpha+p.Beta >= 1 {
		return fmt.Errorf("garch: alpha+beta must be below 1 for stationarity, got %g", p.Alpha+p.Beta)
	}
	return nil
}

// UnconditionalVariance returns omega/(1-alpha-beta), the long-run variance
// used to seed a fresh simulated path. Only meaningful for valid params.
func (p Params) UnconditionalVariance() float64 {
	return p.Omega / (1 - p.Alpha - p.Beta)
}

// NextVariance advances the recursion one tick: v' = omega + alpha*r2 + beta*v,
// floored so the sequence stays strictly positive.
func (p Params) NextVariance(v, r2 float64) float64 {
	next := p.Omega + p.Alpha*r2 + p.Beta*v
	if next < varianceFloor {
		next = varianceFloor
	}
	return next
}
