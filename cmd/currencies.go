package cmd

import (
	"context"
	"flag"

	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type listCurrenciesCmd struct{}

func (*listCurrenciesCmd) Name() string             { return "list-currencies" }
func (*listCurrenciesCmd) Synopsis() string         { return "list the supported currencies" }
func (*listCurrenciesCmd) Usage() string            { return "vth list-currencies\n" }
func (*listCurrenciesCmd) SetFlags(f *flag.FlagSet) {}

func (*listCurrenciesCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	a.printMarkdown(renderer.Currencies(a.Registry.List()))
	return subcommands.ExitSuccess
}

type currencyInfoCmd struct {
	currency string
}

func (*currencyInfoCmd) Name() string     { return "currency-info" }
func (*currencyInfoCmd) Synopsis() string { return "describe a currency" }
func (*currencyInfoCmd) Usage() string {
	return `vth currency-info -currency <code>

  Shows the currency and the cached pairs it belongs to.
`
}

func (c *currencyInfoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency code, like ETH.")
}

func (c *currencyInfoCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if !a.required(f, map[string]string{"currency": c.currency}) {
		return subcommands.ExitUsageError
	}
	cur, err := a.Registry.Resolve(c.currency)
	if err != nil {
		return a.fail(err)
	}
	// pairs are informational, a missing or corrupt cache only hides them
	cache, err := a.Rates.Cache()
	if err != nil {
		a.Log.Warn().Err(err).Msg("cannot read rates cache")
	}
	a.printMarkdown(renderer.Currency(cur, renderer.FilterPairs(cache, renderer.RatesOptions{Currency: cur.Code})))
	return subcommands.ExitSuccess
}
