package renderer

import (
	"strconv"

	"github.com/etnz/valutatrade"
	md "github.com/nao1215/markdown"
)

// User renders the current user.
func User(u valutatrade.User) string {
	return build(func(m *md.Markdown) {
		m.H1(u.Username)
		blank(m)
		m.BulletList(
			"User id: "+strconv.Itoa(u.ID),
			"Registered: "+stamp(u.RegistrationDate),
		)
	})
}

// Settings renders the effective configuration.
func Settings(entries [][2]string) string {
	return build(func(m *md.Markdown) {
		m.H1("Settings")
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			v := e[1]
			if v == "" {
				v = "-"
			}
			rows = append(rows, []string{e[0], v})
		}
		blank(m)
		table(m, []string{"Key", "Value"}, rows)
	})
}
