package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/valutatrade"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// DefaultOpenERURL is the open access endpoint of open.er-api.com.
const DefaultOpenERURL = "https://open.er-api.com"

// OpenER reads the latest rates from open.er-api.com.
//
//	{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.92}}
type OpenER struct {
	BaseURL  string
	Client   *http.Client
	Keep     []string
	Registry *valutatrade.Registry
}

func (s *OpenER) Name() string { return "open.er-api.com" }

func (s *OpenER) Fetch(ctx context.Context, base string) (valutatrade.Snapshot, error) {
	addr := s.BaseURL
	if addr == "" {
		addr = DefaultOpenERURL
	}
	body, err := get(ctx, s.Client, strings.TrimSuffix(addr, "/")+"/v6/latest/"+base)
	if err != nil {
		return valutatrade.Snapshot{}, err
	}
	if !gjson.ValidBytes(body) {
		return valutatrade.Snapshot{}, fmt.Errorf("invalid response: not JSON")
	}
	if result := gjson.GetBytes(body, "result").String(); result != "success" {
		return valutatrade.Snapshot{}, fmt.Errorf("request for base %s failed: %s %s", base, result, gjson.GetBytes(body, "error-type").String())
	}
	if b := gjson.GetBytes(body, "base_code"); b.Exists() && !strings.EqualFold(b.String(), base) {
		return valutatrade.Snapshot{}, fmt.Errorf("response base is %s, asked for %s", b.String(), base)
	}
	rates := gjson.GetBytes(body, "rates")
	if !rates.IsObject() {
		return valutatrade.Snapshot{}, fmt.Errorf("invalid response: rates is not an object")
	}

	snap := valutatrade.Snapshot{Base: base, Rates: make(map[string]decimal.Decimal), Source: s.Name()}
	rates.ForEach(func(key, value gjson.Result) bool {
		code := strings.ToUpper(key.String())
		if !keep(s.Keep, code) || (s.Registry != nil && !s.Registry.Has(code)) {
			return true
		}
		if value.Type != gjson.Number {
			err = fmt.Errorf("invalid response: rate of %s is not a number", code)
			return false
		}
		var v decimal.Decimal
		if v, err = positive(code, value.Raw); err != nil {
			return false
		}
		snap.Rates[code] = v
		return true
	})
	if err != nil {
		return valutatrade.Snapshot{}, err
	}
	if len(snap.Rates) == 0 {
		return valutatrade.Snapshot{}, fmt.Errorf("response has no usable rate for base %s", base)
	}
	return snap, nil
}
