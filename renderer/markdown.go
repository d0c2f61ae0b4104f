// Package renderer turns valutatrade results into markdown reports.
//
// Reports are plain markdown: the vth command renders them for the terminal
// with glamour, or prints them as is with -plain.
package renderer

import (
	"bytes"
	"time"

	"github.com/etnz/valutatrade"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// rateDigits is the precision of displayed rates.
const rateDigits = 8

// build runs fn on a fresh markdown document and returns it.
func build(fn func(m *md.Markdown)) string {
	var b bytes.Buffer
	m := md.NewMarkdown(&b)
	fn(m)
	return m.String()
}

// blank separates two blocks with an empty line.
func blank(m *md.Markdown) { m.PlainText("") }

// amount formats v in code, falling back to the plain decimal for unknown codes.
func amount(reg *valutatrade.Registry, v decimal.Decimal, code string) string {
	c, err := reg.Get(code)
	if err != nil {
		return v.String() + " " + code
	}
	return valutatrade.FormatAmount(v, c)
}

func rate(v decimal.Decimal) string {
	return v.Round(rateDigits).String()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return valutatrade.FormatTime(t)
}

// table writes cells as they are: no wrapping of long cells, no upper-cased headers.
func table(m *md.Markdown, header []string, rows [][]string) {
	m.CustomTable(md.TableSet{Header: header, Rows: rows}, md.TableOptions{AutoWrapText: false, AutoFormatHeaders: false})
}
