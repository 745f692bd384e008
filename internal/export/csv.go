// Package export renders a transaction list for download.
package export

import (
	"encoding/csv"
	"io"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/money"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{"date", "type", "title", "category", "amount", "description"}

// WriteCSV writes one row per transaction after a header row.
func WriteCSV(w io.Writer, items []transactions.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range items {
		rec := []string{
			t.Date.UTC().Format(dateLayout),
			string(t.Type),
			t.Title,
			t.Category,
			money.FormatFloat(t.Amount),
			t.Description,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
