package cmd

import (
	"context"
	"flag"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type registerCmd struct {
	username string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a user account" }
func (*registerCmd) Usage() string {
	return `vth register -username <name> -password <password>

  Creates a user with an empty portfolio. Usernames are unique, at least 3
  characters long; passwords at least 4.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Name of the new user.")
	f.StringVar(&c.password, "password", "", "Password of the new user.")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if !a.required(f, map[string]string{"username": c.username, "password": c.password}) {
		return subcommands.ExitUsageError
	}
	u, err := valutatrade.Do(a.Log.With().Str("username", c.username).Logger(), "register", func() (valutatrade.User, error) {
		return a.Users.Register(c.username, c.password)
	})
	if err != nil {
		return a.fail(err)
	}
	a.println("User %q registered with id %d. Log in with `vth login -username %s -password ****`.", u.Username, u.ID, u.Username)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in as a registered user" }
func (*loginCmd) Usage() string {
	return `vth login -username <name> -password <password>

  Opens a session, used by every following command until logout.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Name of the user.")
	f.StringVar(&c.password, "password", "", "Password of the user.")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	if !a.required(f, map[string]string{"username": c.username, "password": c.password}) {
		return subcommands.ExitUsageError
	}
	u, err := valutatrade.Do(a.Log.With().Str("username", c.username).Logger(), "login", func() (valutatrade.User, error) {
		u, err := a.Users.Authenticate(c.username, c.password)
		if err != nil {
			return u, err
		}
		return u, a.Session.Login(u)
	})
	if err != nil {
		return a.fail(err)
	}
	a.println("Logged in as %q.", u.Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "close the current session" }
func (*logoutCmd) Usage() string            { return "vth logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	u, found, err := a.Session.Logout()
	if err != nil {
		return a.fail(err)
	}
	if !found {
		a.println("Nobody is logged in.")
		return subcommands.ExitSuccess
	}
	a.Log.Info().Str("action", "logout").Str("username", u.Username).Msg("action done")
	a.println("Logged out %q.", u.Username)
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the logged in user" }
func (*whoamiCmd) Usage() string            { return "vth whoami\n" }
func (*whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (*whoamiCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	su, err := a.Session.Current()
	if err != nil {
		return a.fail(err)
	}
	u, err := a.Users.ByID(su.UserID)
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(renderer.User(u))
	return subcommands.ExitSuccess
}
