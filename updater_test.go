package valutatrade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestDerive(t *testing.T) {
	c := Derive(usdSnapshot(), SupportedCodes, now)

	// 5 codes, every ordered pair except identities
	if len(c.Pairs) != 20 {
		t.Errorf("Derive() has %d pairs, want 20", len(c.Pairs))
	}
	if c.Source != "test" || !c.LastRefresh.Equal(now) {
		t.Errorf("Derive() source %q, last refresh %v", c.Source, c.LastRefresh)
	}
	if _, ok := c.Lookup("USD", "USD"); ok {
		t.Error("Derive() must not produce identity pairs")
	}

	snap := usdSnapshot()
	tests := []struct {
		key  string
		want decimal.Decimal
	}{
		{"USD_EUR", d("0.92")},
		{"EUR_USD", decimal.NewFromInt(1).DivRound(d("0.92"), rateDigits)},
		{"EUR_BTC", snap.Rates["BTC"].DivRound(d("0.92"), rateDigits)},
		{"RUB_EUR", d("0.92").DivRound(d("95"), rateDigits)},
	}
	for _, tt := range tests {
		p, ok := c.Pairs[tt.key]
		if !ok {
			t.Errorf("missing pair %s", tt.key)
			continue
		}
		if !p.Rate.Equal(tt.want) {
			t.Errorf("%s = %s, want %s", tt.key, p.Rate, tt.want)
		}
		if !p.UpdatedAt.Equal(now) {
			t.Errorf("%s updated at %v", tt.key, p.UpdatedAt)
		}
	}
	if got := c.Pairs["BTC_USD"].Rate.Round(2).String(); got != "60000" {
		t.Errorf("BTC_USD = %s, want about 60000", got)
	}
	if got := c.Pairs["EUR_USD"].Rate.Round(10).String(); got != "1.0869565217" {
		t.Errorf("EUR_USD = %s", got)
	}
}

func TestDerive_SkipsMissingAndInvalid(t *testing.T) {
	snap := Snapshot{Base: "USD", Rates: map[string]decimal.Decimal{"EUR": d("0.92"), "RUB": d("0")}}
	c := Derive(snap, SupportedCodes, now)
	if len(c.Pairs) != 2 {
		t.Errorf("Derive() = %v, want only USD_EUR and EUR_USD", c.Keys())
	}
}

func TestUpdater(t *testing.T) {
	reg := DefaultRegistry()
	at := func() time.Time { return now }

	t.Run("first success wins", func(t *testing.T) {
		store := newMemStore()
		down := &fakeSource{name: "down", err: errDown}
		ok := &fakeSource{name: "ok", snap: usdSnapshot()}
		never := &fakeSource{name: "never", snap: usdSnapshot()}
		c, err := NewUpdater(reg, store, zerolog.Nop(), down, ok, never).WithClock(at).Update(context.Background(), "usd")
		if err != nil {
			t.Fatal(err)
		}
		if c.Source != "test" || store.rateWrites != 1 || never.calls != 0 || down.calls != 1 {
			t.Errorf("source %q, writes %d, calls %d %d", c.Source, store.rateWrites, down.calls, never.calls)
		}
		if !store.rates.LastRefresh.Equal(now) {
			t.Errorf("last refresh = %v", store.rates.LastRefresh)
		}
	})

	t.Run("all fail keeps the cache", func(t *testing.T) {
		store := newMemStore()
		store.rates = Derive(usdSnapshot(), SupportedCodes, now.Add(-time.Hour))
		_, err := NewUpdater(reg, store, zerolog.Nop(), &fakeSource{name: "a", err: errDown}, &fakeSource{name: "b", err: errDown}).
			WithClock(at).Update(context.Background(), "USD")
		assertKind(t, err, "RateSourceUnavailable")
		if !errors.Is(err, errDown) {
			t.Errorf("error %v does not wrap the source errors", err)
		}
		if store.rateWrites != 0 || !store.rates.LastRefresh.Equal(now.Add(-time.Hour)) {
			t.Error("failed update touched the cache")
		}
	})

	t.Run("no source", func(t *testing.T) {
		_, err := NewUpdater(reg, newMemStore(), zerolog.Nop()).Update(context.Background(), "USD")
		assertKind(t, err, "RateSourceUnavailable")
	})

	t.Run("timeout moves to the next source", func(t *testing.T) {
		store := newMemStore()
		u := NewUpdater(reg, store, zerolog.Nop(), &fakeSource{name: "slow", wait: true}, &fakeSource{name: "ok", snap: usdSnapshot()})
		u.Timeout = 10 * time.Millisecond
		if _, err := u.Update(context.Background(), "USD"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("wrong base", func(t *testing.T) {
		store := newMemStore()
		_, err := NewUpdater(reg, store, zerolog.Nop(), &fakeSource{name: "eur", snap: Snapshot{Base: "EUR"}}).Update(context.Background(), "USD")
		assertKind(t, err, "RateSourceUnavailable")
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := NewUpdater(reg, newMemStore(), zerolog.Nop()).Update(context.Background(), "XYZ")
		assertKind(t, err, "CurrencyNotFound")
	})
}
