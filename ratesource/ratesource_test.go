package ratesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeRateHost(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`{"success":true,"base":"USD","rates":{"EUR":0.9215,"RUB":95.5,"JPY":149.2,"XAU":0.0004}}`,
		func(r *http.Request) {
			assert.Equal(t, "USD", r.URL.Query().Get("base"))
			assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		})
	src := &ExchangeRateHost{BaseURL: srv.URL, APIKey: "secret", Client: srv.Client(), Registry: valutatrade.DefaultRegistry()}

	snap, err := src.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "exchangerate.host", snap.Source)
	assert.Equal(t, "USD", snap.Base)
	assert.Equal(t, "0.9215", snap.Rates["EUR"].String())
	assert.Equal(t, "95.5", snap.Rates["RUB"].String())
	assert.Contains(t, snap.Rates, "JPY")
	assert.NotContains(t, snap.Rates, "XAU", "unknown codes are dropped")
}

func TestExchangeRateHost_Keep(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"base":"USD","rates":{"EUR":0.92,"JPY":149.2}}`, nil)
	src := &ExchangeRateHost{BaseURL: srv.URL, Client: srv.Client(), Keep: []string{"EUR"}}

	snap, err := src.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Len(t, snap.Rates, 1)
}

func TestExchangeRateHost_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusInternalServerError, `{}`},
		{"not json", http.StatusOK, `<html>`},
		{"refused", http.StatusOK, `{"success":false,"error":{"code":101}}`},
		{"no rates", http.StatusOK, `{"success":true}`},
		{"rates not object", http.StatusOK, `{"rates":[1,2]}`},
		{"other base", http.StatusOK, `{"base":"EUR","rates":{"USD":1.08}}`},
		{"negative", http.StatusOK, `{"rates":{"EUR":-1}}`},
		{"string rate", http.StatusOK, `{"rates":{"EUR":"0.92"}}`},
		{"nothing usable", http.StatusOK, `{"rates":{"XAU":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body, nil)
			src := &ExchangeRateHost{BaseURL: srv.URL, Client: srv.Client(), Registry: valutatrade.DefaultRegistry()}
			_, err := src.Fetch(context.Background(), "USD")
			assert.Error(t, err)
		})
	}
}

func TestOpenER(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`{"result":"success","base_code":"EUR","rates":{"EUR":1,"USD":1.0852,"BTC":0.0000154}}`,
		func(r *http.Request) {
			assert.Equal(t, "/v6/latest/EUR", r.URL.Path)
		})
	src := &OpenER{BaseURL: srv.URL + "/", Client: srv.Client(), Registry: valutatrade.DefaultRegistry()}

	snap, err := src.Fetch(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "open.er-api.com", snap.Source)
	assert.Equal(t, "1.0852", snap.Rates["USD"].String())
	assert.Equal(t, "0.0000154", snap.Rates["BTC"].String())
}

func TestOpenER_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusTooManyRequests, `{}`},
		{"not json", http.StatusOK, `nope`},
		{"error result", http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`},
		{"other base", http.StatusOK, `{"result":"success","base_code":"USD","rates":{"EUR":0.92}}`},
		{"zero", http.StatusOK, `{"result":"success","rates":{"USD":0}}`},
		{"string rate", http.StatusOK, `{"result":"success","rates":{"USD":"1.08"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body, nil)
			src := &OpenER{BaseURL: srv.URL, Client: srv.Client()}
			_, err := src.Fetch(context.Background(), "EUR")
			assert.Error(t, err)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	src := &OpenER{BaseURL: srv.URL, Client: srv.Client()}
	_, err := src.Fetch(ctx, "USD")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStub(t *testing.T) {
	snap, err := Stub{}.Fetch(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "0.92", snap.Rates["EUR"].String())
	assert.True(t, snap.Rates["BTC"].IsPositive())

	snap, err = Stub{}.Fetch(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "1.08", snap.Rates["USD"].String())

	// other bases are derived from the USD table
	snap, err = Stub{}.Fetch(context.Background(), "RUB")
	require.NoError(t, err)
	assert.Len(t, snap.Rates, 4)
	assert.Equal(t, "0.010526315789473684", snap.Rates["USD"].String())
	assert.True(t, snap.Rates["EUR"].Equal(decimal.RequireFromString("0.92").DivRound(decimal.NewFromInt(95), 18)))
	_, hasRUB := snap.Rates["RUB"]
	assert.False(t, hasRUB)

	_, err = Stub{}.Fetch(context.Background(), "GBP")
	assert.Error(t, err)
}

func TestUpdater_StubOtherBase(t *testing.T) {
	cache := &memCache{}
	u := valutatrade.NewUpdater(valutatrade.DefaultRegistry(), cache, zerolog.Nop(), Stub{})
	c, err := u.Update(context.Background(), "RUB")
	require.NoError(t, err)
	usdRub, ok := c.Lookup("USD", "RUB")
	require.True(t, ok)
	assert.Equal(t, "95", usdRub.Rate.Round(8).String())
	rubUSD, ok := c.Lookup("RUB", "USD")
	require.True(t, ok)
	assert.Equal(t, "0.01052632", rubUSD.Rate.Round(8).String())
}

func TestUpdater_FallsBackToStub(t *testing.T) {
	srv := serve(t, http.StatusServiceUnavailable, `{}`, nil)
	reg := valutatrade.DefaultRegistry()
	cache := &memCache{}
	u := valutatrade.NewUpdater(reg, cache, zerolog.Nop(),
		&ExchangeRateHost{BaseURL: srv.URL, Client: srv.Client()},
		&OpenER{BaseURL: srv.URL, Client: srv.Client()},
		Stub{},
	)
	c, err := u.Update(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "stub", c.Source)
	eur, ok := c.Lookup("EUR", "USD")
	require.True(t, ok)
	assert.Equal(t, "1.0869565217", eur.Rate.Round(10).String())
	assert.Equal(t, 1, cache.writes)
}

type memCache struct {
	cache  valutatrade.RateCache
	writes int
}

func (m *memCache) ReadRates() (valutatrade.RateCache, error) { return m.cache, nil }

func (m *memCache) WriteRates(c valutatrade.RateCache) error {
	m.cache = c
	m.writes++
	return nil
}
