package valutatrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultRequestTimeout bounds a single rate source fetch.
const DefaultRequestTimeout = 10 * time.Second

// rateDigits is the number of decimal places kept by derived rates.
const rateDigits = 18

// SupportedCodes is the set of currencies for which the updater derives pairs.
var SupportedCodes = []string{"USD", "EUR", "RUB", "BTC", "ETH"}

// Snapshot is what a rate source returns: how many units of each code one unit of Base buys.
type Snapshot struct {
	Base   string
	Rates  map[string]decimal.Decimal
	Source string
}

// RateSource fetches a base currency snapshot or fails.
type RateSource interface {
	Name() string
	Fetch(ctx context.Context, base string) (Snapshot, error)
}

// Updater refreshes the rate cache from an ordered list of sources.
type Updater struct {
	registry  *Registry
	store     RateCacheStore
	sources   []RateSource
	log       zerolog.Logger
	Supported []string
	Timeout   time.Duration
	now       func() time.Time
}

// NewUpdater returns an updater trying sources in order.
func NewUpdater(reg *Registry, store RateCacheStore, log zerolog.Logger, sources ...RateSource) *Updater {
	return &Updater{
		registry:  reg,
		store:     store,
		sources:   sources,
		log:       log,
		Supported: SupportedCodes,
		Timeout:   DefaultRequestTimeout,
		now:       time.Now,
	}
}

// WithClock replaces the clock, for tests.
func (u *Updater) WithClock(now func() time.Time) *Updater {
	u.now = now
	return u
}

// Update fetches a snapshot for base, derives every supported pair through base and
// persists the new cache in a single write.
//
// If no source succeeds the persisted cache is left untouched.
func (u *Updater) Update(ctx context.Context, base string) (RateCache, error) {
	bc, err := u.registry.Resolve(base)
	if err != nil {
		return RateCache{}, err
	}

	snap, err := u.fetch(ctx, bc.Code)
	if err != nil {
		return RateCache{}, err
	}

	cache := Derive(snap, u.Supported, u.now().UTC().Truncate(time.Second))
	if err := u.store.WriteRates(cache); err != nil {
		return RateCache{}, fmt.Errorf("cannot persist rates from %s: %w", snap.Source, err)
	}
	u.log.Info().Str("source", cache.Source).Int("pairs", len(cache.Pairs)).Str("base", bc.Code).Msg("rates updated")
	return cache, nil
}

// fetch returns the first successful snapshot. Each source is tried once.
func (u *Updater) fetch(ctx context.Context, base string) (Snapshot, error) {
	var errs error
	for _, src := range u.sources {
		snap, err := u.fetchOne(ctx, src, base)
		if err == nil {
			return snap, nil
		}
		u.log.Warn().Err(err).Str("source", src.Name()).Msg("rate source failed")
		errs = errors.Join(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if errs == nil {
		return Snapshot{}, fmt.Errorf("%w: no source configured", ErrRateSourceUnavailable)
	}
	return Snapshot{}, fmt.Errorf("%w: %w", ErrRateSourceUnavailable, errs)
}

func (u *Updater) fetchOne(ctx context.Context, src RateSource, base string) (Snapshot, error) {
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}
	snap, err := src.Fetch(ctx, base)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Base != "" && snap.Base != base {
		return Snapshot{}, fmt.Errorf("snapshot base is %s, asked for %s", snap.Base, base)
	}
	if snap.Source == "" {
		snap.Source = src.Name()
	}
	snap.Base = base
	return snap, nil
}

// Derive builds the pair table of a snapshot: rate(from, to) = snap[to] / snap[from].
//
// The base is forced to 1. Pairs with a side missing, or not positive, are omitted.
// Every pair is stamped with the same instant.
func Derive(snap Snapshot, supported []string, at time.Time) RateCache {
	rates := make(map[string]decimal.Decimal, len(snap.Rates)+1)
	for code, v := range snap.Rates {
		rates[code] = v
	}
	rates[snap.Base] = decimal.NewFromInt(1)

	pairs := make(map[string]RatePair)
	for _, from := range supported {
		rf, ok := rates[from]
		if !ok || !rf.IsPositive() {
			continue
		}
		for _, to := range supported {
			if from == to {
				continue
			}
			rt, ok := rates[to]
			if !ok || !rt.IsPositive() {
				continue
			}
			pairs[PairKey(from, to)] = RatePair{
				From:      from,
				To:        to,
				Rate:      rt.DivRound(rf, rateDigits),
				UpdatedAt: at,
			}
		}
	}
	return RateCache{Pairs: pairs, Source: snap.Source, LastRefresh: at}
}
