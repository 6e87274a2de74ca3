package report

import (
	"sort"
	"time"

	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category model.Category
	Amount   decimal.Decimal
}

// Summary holds the dashboard figures for a collection.
type Summary struct {
	Total      decimal.Decimal
	Today      decimal.Decimal
	Count      int
	ByCategory []CategoryTotal // largest first
}

// Summarize computes totals over entries. today selects the entries whose
// date equals today's calendar date.
func Summarize(entries []model.LedgerEntry, today time.Time) Summary {
	day := today.Format(model.DateLayout)
	s := Summary{Total: decimal.Zero, Today: decimal.Zero, Count: len(entries)}

	sums := make(map[model.Category]decimal.Decimal)
	for _, e := range entries {
		s.Total = s.Total.Add(e.Amount)
		if e.Date == day {
			s.Today = s.Today.Add(e.Amount)
		}
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	for c, amt := range sums {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Amount: amt})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
			return cmp > 0
		}
		return a.Category < b.Category
	})
	return s
}

// Share returns the fraction of the total spent in ct, in percent.
func (s Summary) Share(ct CategoryTotal) decimal.Decimal {
	if s.Total.IsZero() {
		return decimal.Zero
	}
	return ct.Amount.Div(s.Total).Mul(decimal.NewFromInt(100)).Round(1)
}
