package cmd

import (
	"flag"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// currencyFlags are completed with the registry codes.
var currencyFlags = map[string]bool{"currency": true, "from": true, "to": true, "base": true}

// Completion returns the shell completion tree of vth.
//
// A main package calls Completion().Complete(name) before parsing flags: it
// answers and exits when the shell asks for a completion.
func Completion() *complete.Command {
	codes := predict.Set(valutatrade.DefaultRegistry().Codes())
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"plain":  predict.Nothing,
		},
	}
	for _, g := range commands() {
		for _, c := range g.cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			f.VisitAll(func(fl *flag.Flag) {
				sub.Flags[fl.Name] = flagPredictor(fl, codes)
			})
			if c.Name() == "topic" {
				topics, _ := docs.GetAllTopics()
				sub.Args = predict.Set(append(topics, "*"))
			}
			root.Sub[c.Name()] = sub
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{Args: predict.Set(Names())}
	}
	return root
}

func flagPredictor(fl *flag.Flag, codes predict.Set) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	if currencyFlags[fl.Name] {
		return codes
	}
	return predict.Something
}
