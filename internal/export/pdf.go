package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/dashboard"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/money"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

// WritePDF renders a one-document statement: totals, category breakdown,
// monthly summary and the transaction list.
func WritePDF(w io.Writer, items []transactions.Transaction, charts dashboard.Charts, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transaction Statement", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Transaction Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Generated: "+now.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(60, 7, "Income: "+money.Format(charts.Totals.Income))
	pdf.Cell(60, 7, "Expense: "+money.Format(charts.Totals.Expense))
	pdf.Cell(60, 7, "Balance: "+money.Format(charts.Totals.Balance))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Expense Distribution")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(charts.ExpenseByCategory) == 0 {
		pdf.Cell(0, 7, "No expense data to display.")
		pdf.Ln(7)
	}
	for _, c := range charts.ExpenseByCategory {
		pdf.Cell(90, 7, tr(c.Category))
		pdf.CellFormat(40, 7, money.Format(c.Total), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Monthly Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 7, "Month")
	pdf.CellFormat(40, 7, "Income", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Expense", "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, m := range charts.Monthly {
		pdf.Cell(30, 7, m.Month.String()[:3])
		pdf.CellFormat(40, 7, money.Format(m.Income), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, money.Format(m.Expense), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Transactions (%d)", len(items)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(25, 6, "Date")
	pdf.Cell(20, 6, "Type")
	pdf.Cell(70, 6, "Title")
	pdf.Cell(40, 6, "Category")
	pdf.CellFormat(30, 6, "Amount", "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, t := range items {
		pdf.Cell(25, 6, t.Date.UTC().Format(dateLayout))
		pdf.Cell(20, 6, string(t.Type))
		pdf.Cell(70, 6, tr(t.Title))
		pdf.Cell(40, 6, tr(t.Category))
		pdf.CellFormat(30, 6, money.FormatFloat(t.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	return pdf.Output(w)
}
