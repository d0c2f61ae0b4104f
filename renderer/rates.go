package renderer

import (
	"fmt"
	"slices"

	"github.com/etnz/valutatrade"
	md "github.com/nao1215/markdown"
)

// Rate renders a single cached rate, and its reverse when known.
func Rate(pair valutatrade.RatePair, reverse *valutatrade.RatePair) string {
	return build(func(m *md.Markdown) {
		m.H1(fmt.Sprintf("%s → %s", pair.From, pair.To))
		lines := []string{
			fmt.Sprintf("1 %s = %s %s", pair.From, rate(pair.Rate), pair.To),
		}
		if reverse != nil {
			lines = append(lines, fmt.Sprintf("1 %s = %s %s", reverse.From, rate(reverse.Rate), reverse.To))
		}
		lines = append(lines, "Updated at "+stamp(pair.UpdatedAt))
		blank(m)
		m.BulletList(lines...)
	})
}

// RatesOptions filter the table of Rates.
type RatesOptions struct {
	// Currency keeps only pairs with this code on either side.
	Currency string
	// Top keeps the pairs with the highest rates, 0 keeps everything.
	Top int
	// Stale flags the table as older than the TTL.
	Stale bool
}

// FilterPairs returns the pairs of c selected by opts, in key order or by decreasing rate with Top.
func FilterPairs(c valutatrade.RateCache, opts RatesOptions) []valutatrade.RatePair {
	var pairs []valutatrade.RatePair
	for _, key := range c.Keys() {
		p := c.Pairs[key]
		if opts.Currency != "" && p.From != opts.Currency && p.To != opts.Currency {
			continue
		}
		pairs = append(pairs, p)
	}
	if opts.Top > 0 {
		slices.SortStableFunc(pairs, func(a, b valutatrade.RatePair) int { return b.Rate.Cmp(a.Rate) })
		pairs = pairs[:min(opts.Top, len(pairs))]
	}
	return pairs
}

// Rates renders the rate cache as a table.
func Rates(c valutatrade.RateCache, opts RatesOptions) string {
	return build(func(m *md.Markdown) {
		m.H1("Exchange rates")
		if c.IsEmpty() {
			m.PlainText("The rates cache is empty, run `update-rates` first.")
			return
		}
		m.PlainText(fmt.Sprintf("Source %s, last refresh %s.", c.Source, stamp(c.LastRefresh)))
		if opts.Stale {
			m.PlainText(md.Bold("The rates are older than their time to live, run `update-rates`."))
		}
		pairs := FilterPairs(c, opts)
		if len(pairs) == 0 {
			m.PlainText(fmt.Sprintf("No cached pair for %s.", opts.Currency))
			return
		}
		rows := make([][]string, 0, len(pairs))
		for _, p := range pairs {
			rows = append(rows, []string{valutatrade.PairKey(p.From, p.To), rate(p.Rate), stamp(p.UpdatedAt)})
		}
		blank(m)
		table(m, []string{"Pair", "Rate", "Updated at"}, rows)
	})
}
