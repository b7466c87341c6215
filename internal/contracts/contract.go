// Package contracts models the binary contracts the engine quotes: strike,
// payoff direction and expiry, plus the exchange ticker codec and the ladder
// picker that selects which listed markets to price around spot.
package contracts

import (
	"fmt"
	"time"
)

// Direction is the payoff condition of a binary contract.
type Direction int

const (
	// Above pays when the settlement average is at or above the strike.
	Above Direction = iota
	// Below pays when the settlement average is at or below the strike.
	Below
	// Between pays when the settlement average lands inside [Low, High].
	Between
)

func (d Direction) String() string {
	switch d {
	case Above:
		return "above"
	case Below:
		return "below"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Contract is an immutable view of one binary market. For Above/Below the
// Strike field is the boundary; for Between the payoff band is [Low, High]
// and Strike is unused.
type Contract struct {
	Ticker    string
	Direction Direction
	Strike    float64
	Low       float64
	High      float64
	Expiry    time.Time
}

// Listed is a market as reported by the exchange, carrying its live order
// book top alongside the payoff boundaries. The picker consumes these.
type Listed struct {
	Ticker    string
	Direction Direction
	Lower     float64
	Upper     float64
	Bid       float64
	Ask       float64
	Expiry    time.Time
}

// Contract converts the listed view into the pricing model's contract.
func (l Listed) Contract() Contract {
	c := Contract{
		Ticker:    l.Ticker,
		Direction: l.Direction,
		Expiry:    l.Expiry,
	}
	switch l.Direction {
	case Above:
		c.Strike = l.Lower
	case Below:
		c.Strike = l.Upper
	case Between:
		c.Low = l.Lower
		c.High = l.Upper
	}
	return c
}
