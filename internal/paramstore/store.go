// Package paramstore reads the GARCH parameter file that the offline fit job
// rewrites periodically. The engine treats the triple as read-only
// configuration for a pricing tick; an unreadable or non-stationary file is a
// fatal configuration error, not something to quote through.
package paramstore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sawpanic/binquote/internal/garch"
)

// Fit is one parameter file payload: the fitted triple plus when the fit ran.
type Fit struct {
	Timestamp time.Time    `json:"timestamp"`
	Params    garch.Params `json:"-"`
}

// Age reports how stale the fit is.
func (f Fit) Age(now time.Time) time.Duration {
	return now.Sub(f.Timestamp)
}

type fileFormat struct {
	Timestamp string  `json:"timestamp"`
	Omega     float64 `json:"omega"`
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
}

// Load reads and validates a parameter file. Callers re-load per pricing
// tick; the file is small and the fit job swaps it atomically.
func Load(path string) (Fit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fit{}, fmt.Errorf("paramstore: read %s: %w", path, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return Fit{}, fmt.Errorf("paramstore: parse %s: %w", path, err)
	}

	params := garch.Params{Omega: ff.Omega, Alpha: ff.Alpha, Beta: ff.Beta}
	if err := params.Validate(); err != nil {
		return Fit{}, fmt.Errorf("paramstore: %s: %w", path, err)
	}

	fit := Fit{Params: params}
	if ff.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, ff.Timestamp)
		if err != nil {
			return Fit{}, fmt.Errorf("paramstore: bad timestamp in %s: %w", path, err)
		}
		fit.Timestamp = ts
	}
	return fit, nil
}
