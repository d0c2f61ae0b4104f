// Package cmd implements the vth command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/config"
	"github.com/etnz/valutatrade/logging"
	"github.com/etnz/valutatrade/ratesource"
	"github.com/etnz/valutatrade/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Register the subcommands.
// A main package calls Register, then Execute on the commander with the *App as argument.
func Register(c *subcommands.Commander) {
	for _, g := range commands() {
		for _, sc := range g.cmds {
			c.Register(sc, g.name)
		}
	}
}

type group struct {
	name string
	cmds []subcommands.Command
}

func commands() []group {
	return []group{
		{"account", []subcommands.Command{&registerCmd{}, &loginCmd{}, &logoutCmd{}, &whoamiCmd{}}},
		{"trading", []subcommands.Command{&tradeCmd{side: valutatrade.Buy}, &tradeCmd{side: valutatrade.Sell}, &showPortfolioCmd{}}},
		{"rates", []subcommands.Command{&getRateCmd{}, &updateRatesCmd{}, &showRatesCmd{}}},
		{"currencies", []subcommands.Command{&listCurrenciesCmd{}, &currencyInfoCmd{}}},
		{"help", []subcommands.Command{&topicCmd{}, &configCmd{}}},
	}
}

// Names returns the names of the vth commands.
func Names() []string {
	var names []string
	for _, g := range commands() {
		for _, c := range g.cmds {
			names = append(names, c.Name())
		}
	}
	return names
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a valutatrade.yaml file. Defaults to ./valutatrade.yaml if present.")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")

// App holds the collaborators shared by the commands of one invocation.
type App struct {
	Settings *config.Settings
	Log      zerolog.Logger
	Registry *valutatrade.Registry
	DB       *store.DB
	Session  *valutatrade.Session
	Users    *valutatrade.Users
	Rates    *valutatrade.Rates
	Updater  *valutatrade.Updater
	Trader   *valutatrade.Trader

	Stdout io.Writer
	Stderr io.Writer
	// Plain disables terminal rendering of markdown.
	Plain bool

	closer io.Closer
}

// Open loads the settings from the -config flag and opens the data directory on disk.
func Open() (*App, error) {
	s, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(s, afero.NewOsFs(), os.Stdout, os.Stderr)
	if err != nil {
		return nil, err
	}
	app.Plain = *plain
	return app, nil
}

// NewApp wires the application on fs.
func NewApp(s *config.Settings, fs afero.Fs, stdout, stderr io.Writer) (*App, error) {
	log, closer, err := logging.New(logging.Options{
		Level:   s.LogLevel,
		File:    s.LogFile,
		Console: stderr,
		Fs:      fs,
	})
	if err != nil {
		return nil, err
	}
	db, err := store.Open(fs, s.DataDir, s.BackupDir, log)
	if err != nil {
		closer.Close()
		return nil, err
	}
	if s.BackupKeep > 0 {
		db.BackupKeep = s.BackupKeep
	}

	reg := valutatrade.DefaultRegistry()
	session := valutatrade.NewSession(db)
	rates := valutatrade.NewRates(reg, db, s.RatesTTL())
	updater := valutatrade.NewUpdater(reg, db, log, sources(s, reg)...)
	updater.Timeout = s.RequestTimeout()

	return &App{
		Settings: s,
		Log:      log,
		Registry: reg,
		DB:       db,
		Session:  session,
		Users:    valutatrade.NewUsers(db, db),
		Rates:    rates,
		Updater:  updater,
		Trader:   valutatrade.NewTrader(reg, rates, db, session, log),
		Stdout:   stdout,
		Stderr:   stderr,
		closer:   closer,
	}, nil
}

// sources returns the configured rate sources, in order.
func sources(s *config.Settings, reg *valutatrade.Registry) []valutatrade.RateSource {
	client := &http.Client{Timeout: s.RequestTimeout()}
	var list []valutatrade.RateSource
	for _, name := range s.Sources {
		switch name {
		case config.SourceExchangeRateHost:
			list = append(list, &ratesource.ExchangeRateHost{BaseURL: s.ExchangeRateURL, APIKey: s.ExchangeRateAPIKey, Client: client, Registry: reg})
		case config.SourceOpenER:
			list = append(list, &ratesource.OpenER{BaseURL: s.OpenERURL, Client: client, Registry: reg})
		case config.SourceStub:
			list = append(list, ratesource.Stub{})
		}
	}
	return list
}

// Close releases the log file.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// appOf returns the *App passed to Commander.Execute.
func appOf(args []interface{}) *App {
	for _, arg := range args {
		if a, ok := arg.(*App); ok {
			return a
		}
	}
	panic("cmd: commands must be executed with an *App argument")
}

// userLog returns the application logger annotated with the current user.
func (a *App) userLog() zerolog.Logger {
	return valutatrade.WithUser(a.Log, a.Session)
}

// fail reports err and returns the exit status for it.
func (a *App) fail(err error) subcommands.ExitStatus {
	msg := err.Error()
	switch {
	case errors.Is(err, valutatrade.ErrCurrencyNotFound):
		msg += " (see `vth list-currencies`)"
	case errors.Is(err, valutatrade.ErrAuthenticationRequired):
		msg = "you must be logged in: run `vth login -username <name> -password <password>`"
	}
	fmt.Fprintf(a.Stderr, "Error: %s\n", msg)
	return subcommands.ExitFailure
}

// usage reports a command line mistake.
func (a *App) usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// required checks that every named flag value is set.
func (a *App) required(f *flag.FlagSet, values map[string]string) bool {
	ok := true
	f.VisitAll(func(fl *flag.Flag) {
		if v, named := values[fl.Name]; named && v == "" {
			fmt.Fprintf(a.Stderr, "Error: -%s is required\n", fl.Name)
			ok = false
		}
	})
	return ok
}

func (a *App) println(format string, args ...any) {
	fmt.Fprintf(a.Stdout, format+"\n", args...)
}
