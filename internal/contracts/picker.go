package contracts

import (
	"fmt"
	"math"
	"sort"
)

// WithBetweenBins reconstructs the implied Between markets from adjacent
// strikes of the listed Above/Below ladder and appends them to the input.
// The exchange lists only the one-sided markets; the band contracts are
// synthetic and carry no order book of their own.
func WithBetweenBins(listed []Listed) []Listed {
	strikeSet := map[float64]struct{}{}
	for _, l := range listed {
		switch l.Direction {
		case Above:
			strikeSet[l.Lower] = struct{}{}
		case Below:
			strikeSet[l.Upper] = struct{}{}
		}
	}
	strikes := make([]float64, 0, len(strikeSet))
	for s := range strikeSet {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)

	out := append([]Listed(nil), listed...)
	for i := 1; i < len(strikes); i++ {
		lo, hi := strikes[i-1], strikes[i]
		bin := Listed{
			Ticker:    fmt.Sprintf("BETWEEN_%.2f_%.2f", lo, hi),
			Direction: Between,
			Lower:     lo,
			Upper:     hi,
		}
		if len(listed) > 0 {
			bin.Expiry = listed[0].Expiry
		}
		out = append(out, bin)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lower < out[j].Lower })
	return out
}

// PickAroundSpot selects up to n Below markets under spot and n Above markets
// over it, nearest strikes first, returned in ascending strike order. This is
// the ladder the quote loop prices every tick.
func PickAroundSpot(listed []Listed, spot float64, n int) []Listed {
	var below, above []Listed
	for _, l := range listed {
		switch {
		case l.Direction == Below && l.Upper <= spot:
			below = append(below, l)
		case l.Direction == Above && l.Lower >= spot:
			above = append(above, l)
		}
	}
	sort.Slice(below, func(i, j int) bool { return below[i].Upper > below[j].Upper })
	sort.Slice(above, func(i, j int) bool { return above[i].Lower < above[j].Lower })
	if len(below) > n {
		below = below[:n]
	}
	if len(above) > n {
		above = above[:n]
	}

	// below was sorted nearest-first; flip it so the ladder reads low to high.
	out := make([]Listed, 0, len(below)+len(above))
	for i := len(below) - 1; i >= 0; i-- {
		out = append(out, below[i])
	}
	return append(out, above...)
}

// StrikeLadder generates count strikes spaced by interval around spot,
// anchored at the next interval boundary above spot and shaved by a cent so
// a spot sitting exactly on a boundary stays strictly inside its bin. Used
// when quoting without a live market list.
func StrikeLadder(spot, interval float64, count int) []float64 {
	anchor := math.Ceil(spot/interval) * interval
	half := count / 2
	out := make([]float64, 0, count)
	for i := -half; i < count-half; i++ {
		out = append(out, anchor+float64(i)*interval-0.01)
	}
	return out
}
