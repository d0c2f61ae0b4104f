package cmd

import (
	"context"
	"flag"

	"github.com/etnz/valutatrade/docs"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `vth topic [<topic>...]

  Shows documentation for the given topics, or the list of topics.
  "*" shows every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return a.fail(err)
	}
	a.printMarkdown(doc)
	return subcommands.ExitSuccess
}

type configCmd struct{}

func (*configCmd) Name() string             { return "config" }
func (*configCmd) Synopsis() string         { return "show the effective settings" }
func (*configCmd) Usage() string            { return "vth config\n\n  Secrets are masked.\n" }
func (*configCmd) SetFlags(f *flag.FlagSet) {}

func (*configCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appOf(args)
	a.printMarkdown(renderer.Settings(a.Settings.Entries()))
	return subcommands.ExitSuccess
}
