package valutatrade

import (
	"testing"
	"time"
)

func TestRates_Get(t *testing.T) {
	reg := DefaultRegistry()
	store := newMemStore()
	clock := now
	rates := NewRates(reg, store, 300*time.Second).WithClock(func() time.Time { return clock })

	_, err := rates.Get("USD", "BTC")
	assertKind(t, err, "RatesCacheEmpty")

	store.rates = Derive(usdSnapshot(), SupportedCodes, now)

	tests := []struct {
		name     string
		age      time.Duration
		from, to string
		kind     string
	}{
		{"fresh", 0, "BTC", "USD", ""},
		{"lower case codes", time.Minute, "btc", "usd", ""},
		{"at ttl", 300 * time.Second, "EUR", "USD", ""},
		{"past ttl", 301 * time.Second, "EUR", "USD", "RatesCacheExpired"},
		{"unknown currency", 0, "XYZ", "USD", "CurrencyNotFound"},
		{"not derived", 0, "SOL", "USD", "RateUnavailable"},
		{"identity is not cached", 0, "USD", "USD", "RateUnavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = now.Add(tt.age)
			pair, err := rates.Get(tt.from, tt.to)
			assertKind(t, err, tt.kind)
			if err == nil && !pair.Rate.IsPositive() {
				t.Errorf("Get(%s, %s) rate = %s", tt.from, tt.to, pair.Rate)
			}
		})
	}
}

func TestRates_Fresh(t *testing.T) {
	rates := NewRates(DefaultRegistry(), newMemStore(), 0).WithClock(func() time.Time { return now })
	if rates.TTL() != DefaultRatesTTL {
		t.Errorf("TTL() = %v, want %v", rates.TTL(), DefaultRatesTTL)
	}
	tests := []struct {
		name string
		c    RateCache
		want bool
	}{
		{"empty", RateCache{}, false},
		{"just refreshed", RateCache{LastRefresh: now}, true},
		{"old", RateCache{LastRefresh: now.Add(-DefaultRatesTTL - time.Second)}, false},
	}
	for _, tt := range tests {
		if got := rates.Fresh(tt.c); got != tt.want {
			t.Errorf("%s: Fresh() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
