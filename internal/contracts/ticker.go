package contracts

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hourly and daily BTC series. The side letter that encodes Above differs
// between them: hourly uses B (above) / S (below), daily uses T (above) /
// B (below).
const (
	SeriesHourly = "KXBTC"
	SeriesDaily  = "KXBTCD"
)

// Events close on the hour in Eastern Time; the date code embeds the ET wall
// clock, so parsing without the zone would shift expiries by the UTC offset.
var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Zone database missing; fall back to a fixed offset rather than
		// silently using UTC. ET is UTC-5 outside daylight saving.
		loc = time.FixedZone("ET", -5*3600)
	}
	eastern = loc
}

// TickerID is the decoded form of an exchange market code such as
// "KXBTC-25JUL3109-B109375": series, event hour (ET), strike and side.
type TickerID struct {
	Series string
	Event  time.Time
	Strike float64
	Above  bool
}

// ParseTicker decodes a market code. The side letters B and T both read as
// Above, matching the exchange convention for hourly and daily series.
func ParseTicker(market string) (TickerID, error) {
	parts := strings.SplitN(market, "-", 3)
	if len(parts) != 3 {
		return TickerID{}, fmt.Errorf("contracts: malformed ticker %q", market)
	}
	series, dateCode, sideStrike := parts[0], parts[1], parts[2]

	if len(dateCode) != 9 {
		return TickerID{}, fmt.Errorf("contracts: malformed date code %q in %q", dateCode, market)
	}
	year, err := strconv.Atoi(dateCode[0:2])
	if err != nil {
		return TickerID{}, fmt.Errorf("contracts: bad year in %q: %w", market, err)
	}
	month, err := time.Parse("Jan", string(dateCode[2])+strings.ToLower(dateCode[3:5]))
	if err != nil {
		return TickerID{}, fmt.Errorf("contracts: bad month in %q: %w", market, err)
	}
	day, err := strconv.Atoi(dateCode[5:7])
	if err != nil {
		return TickerID{}, fmt.Errorf("contracts: bad day in %q: %w", market, err)
	}
	hour, err := strconv.Atoi(dateCode[7:9])
	if err != nil {
		return TickerID{}, fmt.Errorf("contracts: bad hour in %q: %w", market, err)
	}

	if len(sideStrike) < 2 {
		return TickerID{}, fmt.Errorf("contracts: missing strike in %q", market)
	}
	side := sideStrike[0]
	strike, err := strconv.ParseFloat(sideStrike[1:], 64)
	if err != nil {
		return TickerID{}, fmt.Errorf("contracts: bad strike in %q: %w", market, err)
	}

	return TickerID{
		Series: series,
		Event:  time.Date(2000+year, month.Month(), day, hour, 0, 0, 0, eastern),
		Strike: strike,
		Above:  side == 'B' || side == 'T',
	}, nil
}

// String re-encodes the ticker in exchange form.
func (id TickerID) String() string {
	et := id.Event.In(eastern)
	code := fmt.Sprintf("%02d%s%02d%02d", et.Year()%100, strings.ToUpper(et.Format("Jan")), et.Day(), et.Hour())

	var side byte
	if id.Above {
		side = 'T'
		if id.Series == SeriesHourly {
			side = 'B'
		}
	} else {
		side = 'B'
		if id.Series == SeriesHourly {
			side = 'S'
		}
	}
	return fmt.Sprintf("%s-%s-%c%.2f", id.Series, code, side, id.Strike)
}

// Contract builds the pricing contract for this ticker.
func (id TickerID) Contract() Contract {
	dir := Below
	if id.Above {
		dir = Above
	}
	return Contract{
		Ticker:    id.String(),
		Direction: dir,
		Strike:    id.Strike,
		Expiry:    id.Event,
	}
}

// NextEventHour returns the next full hour in Eastern Time, which is when the
// current hourly event settles.
func NextEventHour(now time.Time) time.Time {
	et := now.In(eastern)
	return time.Date(et.Year(), et.Month(), et.Day(), et.Hour(), 0, 0, 0, eastern).Add(time.Hour)
}
