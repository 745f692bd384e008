package export

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/dashboard"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/money"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

type rowYAML struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description,omitempty"`
}

type categoryYAML struct {
	Category string `yaml:"category"`
	Total    string `yaml:"total"`
}

type monthYAML struct {
	Month   string `yaml:"month"`
	Income  string `yaml:"income"`
	Expense string `yaml:"expense"`
}

type reportYAML struct {
	GeneratedAt       string         `yaml:"generated_at"`
	Income            string         `yaml:"income"`
	Expense           string         `yaml:"expense"`
	Balance           string         `yaml:"balance"`
	ExpenseByCategory []categoryYAML `yaml:"expense_by_category"`
	Monthly           []monthYAML    `yaml:"monthly"`
	Transactions      []rowYAML      `yaml:"transactions"`
}

// WriteYAML writes the list together with its chart data.
func WriteYAML(w io.Writer, items []transactions.Transaction, charts dashboard.Charts, now time.Time) error {
	rep := reportYAML{
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		Income:       money.Format(charts.Totals.Income),
		Expense:      money.Format(charts.Totals.Expense),
		Balance:      money.Format(charts.Totals.Balance),
		Transactions: make([]rowYAML, 0, len(items)),
	}
	for _, c := range charts.ExpenseByCategory {
		rep.ExpenseByCategory = append(rep.ExpenseByCategory, categoryYAML{
			Category: c.Category,
			Total:    money.Format(c.Total),
		})
	}
	for _, m := range charts.Monthly {
		rep.Monthly = append(rep.Monthly, monthYAML{
			Month:   m.Month.String()[:3],
			Income:  money.Format(m.Income),
			Expense: money.Format(m.Expense),
		})
	}
	for _, t := range items {
		rep.Transactions = append(rep.Transactions, rowYAML{
			ID:          t.ID,
			Date:        t.Date.UTC().Format(dateLayout),
			Type:        string(t.Type),
			Title:       t.Title,
			Category:    t.Category,
			Amount:      money.FormatFloat(t.Amount),
			Description: t.Description,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
