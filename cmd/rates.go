package cmd

import (
	"context"
	"errors"
	"flag"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type getRateCmd struct {
	from string
	to   string
}

func (*getRateCmd) Name() string     { return "get-rate" }
func (*getRateCmd) Synopsis() string { return "show a cached exchange rate" }
func (*getRateCmd) Usage() string {
	return `vth get-rate -from <code> -to <code>

  Fails if the rates cache is empty, older than its time to live, or does
  not hold the pair.
`
}

func (c *getRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source currency code.")
	f.StringVar(&c.to, "to", "", "Target currency code.")
}

func (c *getRateCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if !a.required(f, map[string]string{"from": c.from, "to": c.to}) {
		return subcommands.ExitUsageError
	}
	pair, err := a.Rates.Get(c.from, c.to)
	if err != nil {
		return a.fail(err)
	}
	var reverse *valutatrade.RatePair
	if rp, err := a.Rates.Get(pair.To, pair.From); err == nil {
		reverse = &rp
	}
	a.printMarkdown(renderer.Rate(pair, reverse))
	return subcommands.ExitSuccess
}

type updateRatesCmd struct {
	base string
}

func (*updateRatesCmd) Name() string     { return "update-rates" }
func (*updateRatesCmd) Synopsis() string { return "refresh the rates cache" }
func (*updateRatesCmd) Usage() string {
	return `vth update-rates [-base <code>]

  Asks the configured rate sources in order and replaces the cache with the
  first answer. The cache is kept if every source fails.
`
}

func (c *updateRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Base currency of the snapshot. Defaults to the configured base currency.")
}

func (c *updateRatesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	base := c.base
	if base == "" {
		base = a.Settings.DefaultBaseCurrency
	}
	if _, err := a.DB.ReadRates(); errors.Is(err, valutatrade.ErrStorageCorrupt) {
		a.Log.Warn().Err(err).Msg("replacing corrupt rates cache")
	}
	cache, err := valutatrade.Do(a.userLog().With().Str("base", base).Logger(), "update-rates", func() (valutatrade.RateCache, error) {
		return a.Updater.Update(ctx, base)
	})
	if err != nil {
		return a.fail(err)
	}
	a.println("Rates updated from %s: %d pairs at %s.", cache.Source, len(cache.Pairs), valutatrade.FormatTime(cache.LastRefresh))
	return subcommands.ExitSuccess
}

type showRatesCmd struct {
	currency string
	top      int
}

func (*showRatesCmd) Name() string     { return "show-rates" }
func (*showRatesCmd) Synopsis() string { return "list the cached exchange rates" }
func (*showRatesCmd) Usage() string {
	return `vth show-rates [-currency <code>] [-top <n>]

  Lists the cached pairs, even when they are older than their time to live.
`
}

func (c *showRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Only show pairs with this currency on either side.")
	f.IntVar(&c.top, "top", 0, "Only show the N highest rates.")
}

func (c *showRatesCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if c.top < 0 {
		return a.usage("-top must not be negative")
	}
	opts := renderer.RatesOptions{Top: c.top}
	if c.currency != "" {
		cur, err := a.Registry.Resolve(c.currency)
		if err != nil {
			return a.fail(err)
		}
		opts.Currency = cur.Code
	}
	cache, err := a.Rates.Cache()
	if err != nil {
		return a.fail(err)
	}
	opts.Stale = !cache.IsEmpty() && !a.Rates.Fresh(cache)
	a.printMarkdown(renderer.Rates(cache, opts))
	return subcommands.ExitSuccess
}
