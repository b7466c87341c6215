package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/binquote/internal/analytic"
	"github.com/sawpanic/binquote/internal/config"
	"github.com/sawpanic/binquote/internal/contracts"
	"github.com/sawpanic/binquote/internal/garch"
	"github.com/sawpanic/binquote/internal/paramstore"
	"github.com/sawpanic/binquote/internal/pricing"
	"github.com/sawpanic/binquote/internal/report"
	"github.com/sawpanic/binquote/internal/simcache"
	"github.com/sawpanic/binquote/internal/store"
	"github.com/sawpanic/binquote/internal/telemetry"
	"github.com/sawpanic/binquote/internal/vol"
)

const secsPerYear = 365 * 24 * 3600

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	spot, _ := cmd.Flags().GetFloat64("spot")
	seedFlag, _ := cmd.Flags().GetUint64("seed")
	stubVol, _ := cmd.Flags().GetBool("stub-vol")
	tickers, _ := cmd.Flags().GetStringSlice("tickers")

	if spot <= 0 {
		return fmt.Errorf("--spot is required and must be positive")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	fit, err := paramstore.Load(cfg.ParamFile)
	if err != nil {
		return err
	}
	now := time.Now()
	log.Info().
		Float64("omega", fit.Params.Omega).
		Float64("alpha", fit.Params.Alpha).
		Float64("beta", fit.Params.Beta).
		Dur("fit_age", fit.Age(now)).
		Msg("garch parameters loaded")

	seed := cfg.Seed
	if seedFlag != 0 {
		seed = seedFlag
	}
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}

	metrics := telemetry.NewMetrics()
	cache := simcache.New(garch.NewSimulator(seed), cfg.SettlementWindow,
		simcache.WithCapacity(cfg.Cache.Entries),
		simcache.WithSpotDigits(cfg.Cache.SpotDigits),
		simcache.WithObserver(metrics),
	)
	engine := pricing.NewEngine(cache, cfg.Engine, metrics)

	aggregator, err := buildAggregator(cfg.Vol, stubVol)
	if err != nil {
		return err
	}

	ladder, err := buildLadder(cfg.Ladder, tickers, spot, now)
	if err != nil {
		return err
	}

	result, err := engine.QuoteBatch(spot, fit.Params, ladder, now)
	if err != nil {
		return err
	}
	metrics.BatchesPriced.Inc()

	sigma, sigmaOK := aggregator.EffectiveSigma()
	metrics.RecordSigma(sigma, sigmaOK)

	rows := make([]report.Row, 0, len(result.Quotes))
	byTicker := map[string]contracts.Contract{}
	for _, c := range ladder {
		byTicker[c.Ticker] = c
	}
	for _, q := range result.Quotes {
		row := report.Row{Quote: q}
		c := byTicker[q.Ticker]
		if sigmaOK && c.Direction == contracts.Above {
			tYears := c.Expiry.Sub(now).Seconds() / secsPerYear
			band := analytic.Digital(spot, c.Strike, tYears, sigma)
			row.Analytic = &band
		}
		rows = append(rows, row)
	}

	fmt.Fprint(os.Stdout, report.Board(spot, sigma, sigmaOK, rows, result.Skipped, now))

	if cfg.StoreDSN != "" {
		qs, err := store.Open(cfg.StoreDSN)
		if err != nil {
			return err
		}
		defer qs.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := qs.SaveBatch(ctx, result); err != nil {
			log.Error().Err(err).Msg("quote persistence failed")
		}
	}
	return nil
}

// buildAggregator wires the three volatility sources from config. Stub mode
// substitutes constants so a quote run needs no live feeds.
func buildAggregator(cfg config.VolConfig, stub bool) (*vol.Aggregator, error) {
	if stub {
		return vol.NewAggregator(
			vol.Const{Sigma: 0.002, Name: "stub-1m"},
			vol.Const{Sigma: 0.02, Name: "stub-1h"},
			vol.Const{Sigma: 0.04, Name: "stub-24h"},
			cfg.Weight24h, cfg.Weight1h,
		)
	}

	oneMin := vol.Source(vol.Absent{Name: "1m"})
	oneHour := vol.Source(vol.Absent{Name: "1h"})
	day := vol.Source(vol.Absent{Name: "24h"})

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if cfg.RedisKey1m != "" {
			oneMin = vol.RedisSource{Client: client, Key: cfg.RedisKey1m, Name: "redis-1m"}
		}
		if cfg.RedisKey1h != "" {
			oneHour = vol.RedisSource{Client: client, Key: cfg.RedisKey1h, Name: "redis-1h"}
		}
		if cfg.RedisKey24h != "" {
			day = vol.RedisSource{Client: client, Key: cfg.RedisKey24h, Name: "redis-24h"}
		}
	}
	if cfg.RESTURL != "" {
		// REST fallback backs the slot the cache does not cover.
		if _, ok := day.(vol.Absent); ok {
			day = vol.NewRESTSource("rest-24h", cfg.RESTURL)
		} else if _, ok := oneHour.(vol.Absent); ok {
			oneHour = vol.NewRESTSource("rest-1h", cfg.RESTURL)
		}
	}

	return vol.NewAggregator(oneMin, oneHour, day, cfg.Weight24h, cfg.Weight1h)
}

// buildLadder either parses explicit market codes or generates the synthetic
// strike ladder around spot for the next hourly event.
func buildLadder(cfg config.LadderConfig, tickers []string, spot float64, now time.Time) ([]contracts.Contract, error) {
	if len(tickers) > 0 {
		out := make([]contracts.Contract, 0, len(tickers))
		for _, code := range tickers {
			id, err := contracts.ParseTicker(code)
			if err != nil {
				return nil, err
			}
			out = append(out, id.Contract())
		}
		return out, nil
	}

	expiry := contracts.NextEventHour(now)
	strikes := contracts.StrikeLadder(spot, cfg.Interval, cfg.Count)
	out := make([]contracts.Contract, 0, len(strikes))
	for _, k := range strikes {
		id := contracts.TickerID{
			Series: contracts.SeriesHourly,
			Event:  expiry,
			Strike: k,
			Above:  true,
		}
		out = append(out, id.Contract())
	}
	return out, nil
}
