// Command vth is a local currency trading simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/valutatrade/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("vth")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	app, err := cmd.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cmd.IsExtension(flag.Arg(0)) {
		if found, code := app.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
			app.Close()
			os.Exit(code)
		}
	}
	status := commander.Execute(context.Background(), app)
	app.Close()
	os.Exit(int(status))
}
