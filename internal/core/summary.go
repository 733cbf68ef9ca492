package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the aggregated amount for one category within a period.
// Share is the category's percentage of the period's grand total.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Share    float64
}

// Summary is a per-category breakdown for a period prefix.
type Summary struct {
	Period     string
	Total      decimal.Decimal
	Categories []CategoryTotal
}

// SummarizeByCategory aggregates expenses whose ISO date starts with the
// given period prefix (e.g. "2025-06" selects June 2025, "2025" the whole
// year). Categories appear in first-seen order; a period with no matching
// expenses yields an empty summary. The prefix match is exact and cheap for
// ISO dates and is the only filtering strategy supported.
func SummarizeByCategory(expenses []Expense, period string) Summary {
	s := Summary{Period: period, Total: decimal.Zero}

	idx := make(map[string]int)
	for _, e := range expenses {
		if !strings.HasPrefix(e.Date.ISO(), period) {
			continue
		}
		i, ok := idx[e.Category]
		if !ok {
			i = len(s.Categories)
			idx[e.Category] = i
			s.Categories = append(s.Categories, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		s.Categories[i].Total = s.Categories[i].Total.Add(e.Amount)
		s.Total = s.Total.Add(e.Amount)
	}

	if s.Total.IsPositive() {
		for i := range s.Categories {
			s.Categories[i].Share, _ = s.Categories[i].Total.
				Div(s.Total).Mul(decimal.NewFromInt(100)).Float64()
		}
	}

	return s
}
