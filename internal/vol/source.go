// Package vol unifies the volatility inputs of the pricing engine: rolling
// realized-vol windows, external caches and REST fallbacks, blended into one
// effective sigma and one error sigma per pricing tick.
package vol

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Source supplies an annualized sigma for one look-back window. A false
// return means the source currently has nothing: supplier failure or not
// enough data. Absence is routine and never an error for the caller.
type Source interface {
	Label() string
	Sample() (float64, bool)
}

// Const is a fixed-sigma source for tests and demo quoting.
type Const struct {
	Sigma float64
	Name  string
}

func (c Const) Label() string { return c.Name }

func (c Const) Sample() (float64, bool) { return c.Sigma, true }

// Absent is a source that never has data.
type Absent struct{ Name string }

func (a Absent) Label() string { return a.Name }

func (a Absent) Sample() (float64, bool) { return 0, false }

// WindowSource reads realized volatility for one span off a rolling tick
// window.
type WindowSource struct {
	Window *Window
	Span   time.Duration
	Name   string
}

func (s WindowSource) Label() string { return s.Name }

func (s WindowSource) Sample() (float64, bool) {
	return s.Window.RealizedVol(s.Span)
}

// RedisSource reads a sigma that an external feed process maintains under a
// plain string key. Any failure degrades to absent and is logged once per
// sample; the feed process owns retry behaviour.
type RedisSource struct {
	Client  redis.UniversalClient
	Key     string
	Name    string
	Timeout time.Duration
}

func (s RedisSource) Label() string { return s.Name }

func (s RedisSource) Sample() (float64, bool) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := s.Client.Get(ctx, s.Key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Str("source", s.Name).Str("key", s.Key).Err(err).Msg("vol supplier failed")
		}
		return 0, false
	}
	sigma, err := strconv.ParseFloat(raw, 64)
	if err != nil || sigma < 0 {
		log.Warn().Str("source", s.Name).Str("key", s.Key).Str("raw", raw).Msg("vol supplier returned junk")
		return 0, false
	}
	return sigma, true
}

// RESTSource fetches sigma from a JSON endpoint of the shape {"sigma": x}.
// The breaker keeps a dead endpoint from stalling every pricing tick and the
// limiter keeps the quote loop from hammering it; both trip to absent.
type RESTSource struct {
	URL     string
	Name    string
	Client  *http.Client
	Breaker *gobreaker.CircuitBreaker
	Limiter *rate.Limiter
}

// NewRESTSource wires a REST fallback with a conservative breaker and a
// one-request-per-second budget.
func NewRESTSource(name, url string) *RESTSource {
	return &RESTSource{
		URL:    url,
		Name:   name,
		Client: &http.Client{Timeout: 5 * time.Second},
		Breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		Limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

func (s *RESTSource) Label() string { return s.Name }

func (s *RESTSource) Sample() (float64, bool) {
	if s.Limiter != nil && !s.Limiter.Allow() {
		return 0, false
	}

	value, err := s.Breaker.Execute(func() (interface{}, error) {
		resp, err := s.Client.Get(s.URL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		var payload struct {
			Sigma float64 `json:"sigma"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload.Sigma, nil
	})
	if err != nil {
		log.Warn().Str("source", s.Name).Str("url", s.URL).Err(err).Msg("vol supplier failed")
		return 0, false
	}
	sigma := value.(float64)
	if sigma < 0 {
		return 0, false
	}
	return sigma, true
}
