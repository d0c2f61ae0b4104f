package cmd

import (
	"context"
	"flag"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

// tradeCmd is either buy or sell.
type tradeCmd struct {
	side     valutatrade.Side
	currency string
	amount   string
	base     string
}

func (c *tradeCmd) Name() string { return string(c.side) }
func (c *tradeCmd) Synopsis() string {
	if c.side == valutatrade.Sell {
		return "debit a wallet of the logged in user"
	}
	return "credit a wallet of the logged in user"
}
func (c *tradeCmd) Usage() string {
	return "vth " + string(c.side) + ` -currency <code> -amount <n> [-base <code>]

  The amount is a strictly positive decimal. The receipt shows the
  estimated value in the base currency when a fresh rate is cached.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency code of the wallet, like BTC.")
	f.StringVar(&c.amount, "amount", "", "Amount to "+string(c.side)+".")
	f.StringVar(&c.base, "base", "", "Currency of the estimated cost. Defaults to the configured base currency.")
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if !a.required(f, map[string]string{"currency": c.currency, "amount": c.amount}) {
		return subcommands.ExitUsageError
	}
	base := c.base
	if base == "" {
		base = a.Settings.DefaultBaseCurrency
	}
	trade := a.Trader.Buy
	if c.side == valutatrade.Sell {
		trade = a.Trader.Sell
	}
	log := a.userLog().With().Str("currency", c.currency).Str("amount", c.amount).Logger()
	r, err := valutatrade.Do(log, string(c.side), func() (valutatrade.Receipt, error) {
		return trade(c.currency, c.amount, base)
	})
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(renderer.Receipt(a.Registry, r))
	return subcommands.ExitSuccess
}

type showPortfolioCmd struct {
	base string
}

func (*showPortfolioCmd) Name() string     { return "show-portfolio" }
func (*showPortfolioCmd) Synopsis() string { return "value the wallets of the logged in user" }
func (*showPortfolioCmd) Usage() string {
	return `vth show-portfolio [-base <code>]

  Lists every wallet with its value in the base currency. Wallets without a
  fresh rate are valued at zero.
`
}

func (c *showPortfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Valuation currency. Defaults to the configured base currency.")
}

func (c *showPortfolioCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	base := c.base
	if base == "" {
		base = a.Settings.DefaultBaseCurrency
	}
	v, err := a.Trader.ShowPortfolio(base)
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(renderer.Portfolio(a.Registry, v))
	return subcommands.ExitSuccess
}
