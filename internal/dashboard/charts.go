package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type MonthBucket struct {
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Charts is the data behind the expense pie and the monthly bar chart.
type Charts struct {
	ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
	Monthly           [12]MonthBucket `json:"monthly"`
	Totals            Totals          `json:"totals"`
}

// BuildCharts aggregates items. year limits the monthly chart to one calendar
// year; 0 folds every year into the same twelve months.
func BuildCharts(items []transactions.Transaction, year int) Charts {
	return Charts{
		ExpenseByCategory: ExpenseByCategory(items),
		Monthly:           Monthly(items, year),
		Totals:            Sum(items),
	}
}

// ExpenseByCategory sums expenses per category, largest first.
func ExpenseByCategory(items []transactions.Transaction) []CategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, t := range items {
		if t.Type != transactions.TypeExpense {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, CategoryTotal{Category: cat, Total: total.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Monthly buckets income and expense by the month of each transaction's date.
func Monthly(items []transactions.Transaction, year int) [12]MonthBucket {
	var out [12]MonthBucket
	for i := range out {
		out[i] = MonthBucket{Month: time.Month(i + 1), Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, t := range items {
		d := t.Date.UTC()
		if year != 0 && d.Year() != year {
			continue
		}
		b := &out[d.Month()-1]
		amt := decimal.NewFromFloat(t.Amount)
		if t.Type == transactions.TypeIncome {
			b.Income = b.Income.Add(amt)
		} else {
			b.Expense = b.Expense.Add(amt)
		}
	}

	for i := range out {
		out[i].Income = out[i].Income.Round(2)
		out[i].Expense = out[i].Expense.Round(2)
	}
	return out
}

func Sum(items []transactions.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range items {
		amt := decimal.NewFromFloat(t.Amount)
		if t.Type == transactions.TypeIncome {
			income = income.Add(amt)
		} else {
			expense = expense.Add(amt)
		}
	}
	return Totals{
		Income:  income.Round(2),
		Expense: expense.Round(2),
		Balance: income.Sub(expense).Round(2),
	}
}
