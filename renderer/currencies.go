package renderer

import (
	"fmt"

	"github.com/etnz/valutatrade"
	md "github.com/nao1215/markdown"
)

// Currencies renders the registry.
func Currencies(list []valutatrade.Currency) string {
	return build(func(m *md.Markdown) {
		m.H1("Currencies")
		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{c.Code, c.Name, c.Kind.String(), details(c)})
		}
		blank(m)
		table(m, []string{"Code", "Name", "Kind", "Details"}, rows)
	})
}

func details(c valutatrade.Currency) string {
	if c.Kind == valutatrade.Crypto {
		return fmt.Sprintf("Algo: %s, MCAP: %.2e", c.Algorithm, c.MarketCap)
	}
	return "Issuing: " + c.IssuingCountry
}

// Currency renders one currency and the cached pairs it belongs to.
func Currency(c valutatrade.Currency, pairs []valutatrade.RatePair) string {
	return build(func(m *md.Markdown) {
		m.H1(c.Code)
		m.PlainText(c.DisplayInfo())
		if len(pairs) == 0 {
			return
		}
		rows := make([][]string, 0, len(pairs))
		for _, p := range pairs {
			rows = append(rows, []string{valutatrade.PairKey(p.From, p.To), rate(p.Rate)})
		}
		blank(m)
		table(m, []string{"Pair", "Rate"}, rows)
	})
}
