package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal, or prints it raw in plain mode.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		fmt.Fprint(a.Stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(a.Stdout, out)
			return
		}
	}
	a.Log.Debug().Err(err).Msg("cannot render markdown")
	fmt.Fprint(a.Stdout, md)
}
