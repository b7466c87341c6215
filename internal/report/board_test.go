package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/binquote/internal/analytic"
	"github.com/sawpanic/binquote/internal/pricing"
)

func TestBoard(t *testing.T) {
	band := analytic.Digital(100300, 100000, 1.0/8760, 0.34)
	rows := []Row{
		{
			Quote:    pricing.Quote{Ticker: "KXBTC-25JUL3109-B100000.00", Bid: 0.61, Ask: 0.64},
			Analytic: &band,
			Market:   &MarketTop{Bid: 0.60, Ask: 0.66},
		},
		{
			Quote: pricing.Quote{Ticker: "BETWEEN_100000.00_100250.00", Bid: 0.10, Ask: 0.12},
		},
	}
	skipped := []pricing.Skip{{Ticker: "KXBTC-25JUL3109-S99000.00", Reason: "3s to expiry, below 10s floor"}}

	out := Board(100300, 0.34, true, rows, skipped, time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC))

	assert.Contains(t, out, "spot $100300.00")
	assert.Contains(t, out, "34.00%")
	assert.Contains(t, out, "0.61/0.64")
	assert.Contains(t, out, "0.60/0.66")
	assert.Contains(t, out, "skipped: 3s to expiry")

	// Between row has no analytic band or market column.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "BETWEEN_") {
			assert.Contains(t, line, "| -")
		}
	}
}

func TestBoard_NoSigma(t *testing.T) {
	out := Board(100000, 0, false, nil, nil, time.Now())
	assert.Contains(t, out, "vol n/a")
}
