package valutatrade

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRatesTTL is the maximum age of the rate cache when none is configured.
const DefaultRatesTTL = 300 * time.Second

// RatePair is a cached directed conversion factor.
type RatePair struct {
	From      string
	To        string
	Rate      decimal.Decimal
	UpdatedAt time.Time
}

// PairKey returns the cache key of a pair, like "BTC_USD".
func PairKey(from, to string) string { return from + "_" + to }

// RateCache is a snapshot of derived pairs, replaced as a whole by the updater.
//
// A zero LastRefresh means the cache is empty.
type RateCache struct {
	Pairs       map[string]RatePair
	Source      string
	LastRefresh time.Time
}

// IsEmpty reports whether the cache has never been refreshed.
func (c RateCache) IsEmpty() bool { return c.LastRefresh.IsZero() }

// Keys returns the pair keys in alphabetical order.
func (c RateCache) Keys() []string { return slices.Sorted(maps.Keys(c.Pairs)) }

// Lookup returns the pair for (from, to), without any freshness check.
func (c RateCache) Lookup(from, to string) (RatePair, bool) {
	p, ok := c.Pairs[PairKey(from, to)]
	return p, ok
}

// RateCacheStore persists the rate cache as one document.
type RateCacheStore interface {
	// ReadRates returns an empty cache if nothing was persisted yet.
	ReadRates() (RateCache, error)
	// WriteRates atomically replaces the persisted cache.
	WriteRates(c RateCache) error
}

// Rates is the read path of the rate cache used for pricing.
type Rates struct {
	registry *Registry
	store    RateCacheStore
	ttl      time.Duration
	now      func() time.Time
}

// NewRates returns a lookup with the given TTL; a non positive ttl means DefaultRatesTTL.
func NewRates(reg *Registry, store RateCacheStore, ttl time.Duration) *Rates {
	if ttl <= 0 {
		ttl = DefaultRatesTTL
	}
	return &Rates{registry: reg, store: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (r *Rates) WithClock(now func() time.Time) *Rates {
	r.now = now
	return r
}

func (r *Rates) TTL() time.Duration { return r.ttl }

// Get returns the fresh cached rate from -> to.
//
// Identity pairs are not special: X->X fails unless the cache holds an X_X entry.
// Callers that need identity must short-circuit it themselves.
func (r *Rates) Get(from, to string) (RatePair, error) {
	fc, err := r.registry.Resolve(from)
	if err != nil {
		return RatePair{}, err
	}
	tc, err := r.registry.Resolve(to)
	if err != nil {
		return RatePair{}, err
	}
	cache, err := r.store.ReadRates()
	if err != nil {
		return RatePair{}, err
	}
	if cache.IsEmpty() {
		return RatePair{}, fmt.Errorf("%w: run update-rates first", ErrRatesCacheEmpty)
	}
	if age := r.now().Sub(cache.LastRefresh); age > r.ttl {
		return RatePair{}, fmt.Errorf("%w: last refresh %s is older than %s", ErrRatesCacheExpired, cache.LastRefresh.Format(time.RFC3339), r.ttl)
	}
	pair, ok := cache.Lookup(fc.Code, tc.Code)
	if !ok {
		return RatePair{}, &RateUnavailableError{From: fc.Code, To: tc.Code}
	}
	return pair, nil
}

// Cache returns the persisted cache, without freshness check.
func (r *Rates) Cache() (RateCache, error) { return r.store.ReadRates() }

// Fresh reports whether the cache c is not older than the TTL.
func (r *Rates) Fresh(c RateCache) bool {
	return !c.IsEmpty() && r.now().Sub(c.LastRefresh) <= r.ttl
}
