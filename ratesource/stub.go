package ratesource

import (
	"context"
	"fmt"

	"github.com/etnz/valutatrade"
	"github.com/shopspring/decimal"
)

// Stub is an offline source with fixed demo rates.
//
// USD and EUR have their own tables. Any other base of the USD table is
// derived from it, so that one unit of base still buys the same things.
type Stub struct{}

func (Stub) Name() string { return "stub" }

func (Stub) Fetch(ctx context.Context, base string) (valutatrade.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return valutatrade.Snapshot{}, err
	}
	one := decimal.NewFromInt(1)
	usd := map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.92"),
		"RUB": decimal.NewFromInt(95),
		"BTC": one.DivRound(decimal.NewFromInt(60000), 18),
		"ETH": one.DivRound(decimal.NewFromInt(2500), 18),
	}
	var rates map[string]decimal.Decimal
	switch base {
	case "USD":
		rates = usd
	case "EUR":
		rates = map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("1.08"),
			"RUB": decimal.NewFromInt(103),
			"BTC": one.DivRound(decimal.NewFromInt(65000), 18),
			"ETH": one.DivRound(decimal.NewFromInt(2700), 18),
		}
	default:
		inUSD, ok := usd[base]
		if !ok {
			return valutatrade.Snapshot{}, fmt.Errorf("stub has no rates for base %s", base)
		}
		// rates[to] = usd[to] / usd[base]
		rates = map[string]decimal.Decimal{"USD": one.DivRound(inUSD, 18)}
		for code, v := range usd {
			if code != base {
				rates[code] = v.DivRound(inUSD, 18)
			}
		}
	}
	return valutatrade.Snapshot{Base: base, Rates: rates, Source: "stub"}, nil
}
