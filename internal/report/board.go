// Package report renders quote batches for the console.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sawpanic/binquote/internal/analytic"
	"github.com/sawpanic/binquote/internal/pricing"
)

// Row pairs a model quote with its analytic cross-check and, when known, the
// live market top of book.
type Row struct {
	Quote    pricing.Quote
	Analytic *analytic.Band
	Market   *MarketTop
}

// MarketTop is the live order book top for a contract.
type MarketTop struct {
	Bid float64
	Ask float64
}

// Board renders a batch as a fixed-width table: model bid/ask per contract,
// the analytic low/mid/high band when volatility was available, and the
// skipped tail.
func Board(spot float64, sigma float64, sigmaOK bool, rows []Row, skipped []pricing.Skip, at time.Time) string {
	var b strings.Builder

	volText := "n/a"
	if sigmaOK {
		volText = fmt.Sprintf("%.2f%%", sigma*100)
	}
	fmt.Fprintf(&b, "[%s]  spot $%.2f   24h vol %s\n", at.Format("15:04:05"), spot, volText)
	line := strings.Repeat("-", 92)
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%-26s | %-11s | %-8s | %-8s | %-8s | %-11s\n",
		"Contract", "Model B/A", "BS Low", "BS Mid", "BS High", "Market B/A")
	b.WriteString(line + "\n")

	for _, r := range rows {
		model := fmt.Sprintf("%.2f/%.2f", r.Quote.Bid, r.Quote.Ask)
		low, mid, high := "-", "-", "-"
		if r.Analytic != nil {
			lo, hi := r.Analytic.Ordered()
			low = fmt.Sprintf("%.2f", lo)
			mid = fmt.Sprintf("%.2f", r.Analytic.Mid)
			high = fmt.Sprintf("%.2f", hi)
		}
		market := "-"
		if r.Market != nil {
			market = fmt.Sprintf("%.2f/%.2f", r.Market.Bid, r.Market.Ask)
		}
		fmt.Fprintf(&b, "%-26s | %-11s | %-8s | %-8s | %-8s | %-11s\n",
			r.Quote.Ticker, model, low, mid, high, market)
	}

	for _, s := range skipped {
		fmt.Fprintf(&b, "%-26s | skipped: %s\n", s.Ticker, s.Reason)
	}
	return b.String()
}
