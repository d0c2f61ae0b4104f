package ratesource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/valutatrade"
	"github.com/shopspring/decimal"
)

// DefaultExchangeRateHostURL is the latest rates endpoint of exchangerate.host.
const DefaultExchangeRateHostURL = "https://api.exchangerate.host/latest"

// ExchangeRateHost reads the latest rates from exchangerate.host.
//
//	{"success":true,"base":"USD","date":"2025-10-09","rates":{"EUR":0.92,"RUB":95.1}}
type ExchangeRateHost struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	// Keep restricts the snapshot to these codes, nil keeps every code the registry knows.
	Keep     []string
	Registry *valutatrade.Registry
}

func (s *ExchangeRateHost) Name() string { return "exchangerate.host" }

func (s *ExchangeRateHost) endpoint(base string) string {
	addr := s.BaseURL
	if addr == "" {
		addr = DefaultExchangeRateHostURL
	}
	q := url.Values{"base": {base}}
	if s.APIKey != "" {
		q.Set("access_key", s.APIKey)
	}
	sep := "?"
	if strings.Contains(addr, "?") {
		sep = "&"
	}
	return addr + sep + q.Encode()
}

func (s *ExchangeRateHost) Fetch(ctx context.Context, base string) (valutatrade.Snapshot, error) {
	body, err := get(ctx, s.Client, s.endpoint(base))
	if err != nil {
		return valutatrade.Snapshot{}, err
	}
	// numbers are kept as json.Number to preserve their digits
	var jobj any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return valutatrade.Snapshot{}, fmt.Errorf("invalid response: %w", err)
	}

	if ok, err := jsonpath.Get("$.success", jobj); err == nil {
		if b, isBool := ok.(bool); isBool && !b {
			return valutatrade.Snapshot{}, fmt.Errorf("request for base %s was refused", base)
		}
	}
	jrates, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return valutatrade.Snapshot{}, fmt.Errorf("invalid response: rates is missing: %w", err)
	}
	rates, ok := jrates.(map[string]any)
	if !ok {
		return valutatrade.Snapshot{}, fmt.Errorf("invalid response: rates is not an object")
	}
	if jbase, err := jsonpath.Get("$.base", jobj); err == nil {
		if b, isString := jbase.(string); isString && !strings.EqualFold(b, base) {
			return valutatrade.Snapshot{}, fmt.Errorf("response base is %s, asked for %s", b, base)
		}
	}

	snap := valutatrade.Snapshot{Base: base, Rates: make(map[string]decimal.Decimal), Source: s.Name()}
	for code, jv := range rates {
		code = strings.ToUpper(code)
		if !keep(s.Keep, code) || (s.Registry != nil && !s.Registry.Has(code)) {
			continue
		}
		n, ok := jv.(json.Number)
		if !ok {
			return valutatrade.Snapshot{}, fmt.Errorf("invalid response: rate of %s is not a number", code)
		}
		v, err := positive(code, n.String())
		if err != nil {
			return valutatrade.Snapshot{}, err
		}
		snap.Rates[code] = v
	}
	if len(snap.Rates) == 0 {
		return valutatrade.Snapshot{}, fmt.Errorf("response has no usable rate for base %s", base)
	}
	return snap, nil
}
