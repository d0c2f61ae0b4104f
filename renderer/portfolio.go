package renderer

import (
	"fmt"

	"github.com/etnz/valutatrade"
	md "github.com/nao1215/markdown"
)

// Portfolio renders a valuation as a table, one wallet per line and a total.
func Portfolio(reg *valutatrade.Registry, v valutatrade.Valuation) string {
	return build(func(m *md.Markdown) {
		m.H1(fmt.Sprintf("Portfolio of %s", v.Username))
		if len(v.Holdings) == 0 {
			m.PlainText("No wallet yet, use `buy` to open one.")
			return
		}
		m.PlainText(fmt.Sprintf("Valued in %s.", v.Base))

		rows := make([][]string, 0, len(v.Holdings)+1)
		var notes []string
		for _, h := range v.Holdings {
			r := "n/a"
			value := "n/a"
			if h.Priced {
				r = rate(h.Rate)
				value = amount(reg, h.Value, v.Base)
			} else {
				notes = append(notes, fmt.Sprintf("%s is not priced: %v", h.Code, h.Err))
			}
			rows = append(rows, []string{h.Code, amount(reg, h.Balance, h.Code), r, value})
		}
		rows = append(rows, []string{md.Bold("TOTAL"), "", "", md.Bold(amount(reg, v.Total, v.Base))})

		blank(m)
		table(m, []string{"Currency", "Balance", "Rate", "Value in " + v.Base}, rows)
		if len(notes) > 0 {
			blank(m)
			m.BulletList(notes...)
		}
	})
}

// Receipt renders the outcome of a buy or a sell.
func Receipt(reg *valutatrade.Registry, r valutatrade.Receipt) string {
	verb, cost := "Bought", "Estimated cost"
	if r.Side == valutatrade.Sell {
		verb, cost = "Sold", "Estimated proceeds"
	}
	return build(func(m *md.Markdown) {
		m.H1(fmt.Sprintf("%s %s", verb, amount(reg, r.Amount, r.Code)))
		lines := []string{
			fmt.Sprintf("Balance: %s → %s", amount(reg, r.OldBalance, r.Code), amount(reg, r.NewBalance, r.Code)),
		}
		if r.Priced {
			lines = append(lines,
				fmt.Sprintf("Rate: 1 %s = %s %s (updated %s)", r.Code, rate(r.Rate), r.Base, stamp(r.UpdatedAt)),
				fmt.Sprintf("%s: %s", cost, amount(reg, r.EstimatedCost, r.Base)),
			)
		} else {
			lines = append(lines, fmt.Sprintf("Rate %s→%s unavailable: %v", r.Code, r.Base, r.PricingErr))
		}
		blank(m)
		m.BulletList(lines...)
	})
}
