package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

// Filter narrows the list. Zero fields match everything; From and To are inclusive.
type Filter struct {
	Type     transactions.Type
	Category string
	Query    string
	From     time.Time
	To       time.Time
}

func (f Filter) Match(t transactions.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(strings.TrimSpace(f.Category), t.Category) {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(t.Title + "\n" + t.Category + "\n" + t.Description)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

type SortField string

const (
	ByDate     SortField = "date"
	ByAmount   SortField = "amount"
	ByTitle    SortField = "title"
	ByCategory SortField = "category"
)

// Sort orders the list. The zero value is newest date first.
type Sort struct {
	Field     SortField
	Ascending bool
}

// ParseSort reads "field" or "field:asc" / "field:desc". Descending is the default.
func ParseSort(s string) (Sort, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Sort{}, nil
	}

	field, dir, _ := strings.Cut(s, ":")
	out := Sort{Field: SortField(field)}
	switch out.Field {
	case ByDate, ByAmount, ByTitle, ByCategory:
	default:
		return Sort{}, fmt.Errorf("unknown sort field %q", field)
	}
	switch dir {
	case "", "desc":
	case "asc":
		out.Ascending = true
	default:
		return Sort{}, fmt.Errorf("unknown sort direction %q", dir)
	}
	return out, nil
}

func (s Sort) Apply(items []transactions.Transaction) {
	less := s.less()
	sort.SliceStable(items, func(i, j int) bool {
		if s.Ascending {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

func (s Sort) less() func(a, b transactions.Transaction) bool {
	switch s.Field {
	case ByAmount:
		return func(a, b transactions.Transaction) bool { return a.Amount < b.Amount }
	case ByTitle:
		return func(a, b transactions.Transaction) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case ByCategory:
		return func(a, b transactions.Transaction) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	}
	return func(a, b transactions.Transaction) bool { return a.Date.Before(b.Date) }
}
