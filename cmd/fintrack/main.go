package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/client"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/dashboard"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/export"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/money"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const usage = `usage: fintrack <command> [flags]

commands:
  list     [-type income|expense] [-category c] [-q text] [-sort field[:asc|desc]]
  add      -title t -amount n -type income|expense -category c [-date d] [-description s]
  edit     <id> [-title t] [-amount n] [-type t] [-category c] [-date d] [-description s]
  delete   <id>
  charts   [-year yyyy]
  export   -format csv|yaml|pdf [-o file]

environment:
  FINTRACK_API_URL  API base URL (default http://localhost:8080)
  FINTRACK_TOKEN    bearer token for the signed-in user
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	base := os.Getenv("FINTRACK_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c := client.New(base, client.StaticToken(os.Getenv("FINTRACK_TOKEN")))
	d := dashboard.New(c)

	if err := run(ctx, d, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if msg := d.Err(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, d *dashboard.Dashboard, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "list":
		return runList(ctx, d, args, out)
	case "add":
		return runAdd(ctx, d, args, out)
	case "edit":
		return runEdit(ctx, d, args, out)
	case "delete":
		return runDelete(ctx, d, args, out)
	case "charts":
		return runCharts(ctx, d, args, out)
	case "export":
		return runExport(ctx, d, args, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func runList(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	typ := fs.String("type", "", "income or expense")
	cat := fs.String("category", "", "category")
	q := fs.String("q", "", "search text")
	sortBy := fs.String("sort", "", "sort field")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := dashboard.ParseSort(*sortBy)
	if err != nil {
		return err
	}
	d.Sort = s
	d.Filter = dashboard.Filter{
		Type:     transactions.Type(strings.ToLower(*typ)),
		Category: *cat,
		Query:    *q,
	}

	if err := d.Refresh(ctx); err != nil {
		return err
	}
	printTable(out, d.Visible())
	return nil
}

func runAdd(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "title")
	amount := fs.Float64("amount", 0, "amount")
	typ := fs.String("type", "", "income or expense")
	cat := fs.String("category", "", "category")
	date := fs.String("date", "", "date (YYYY-MM-DD), default now")
	desc := fs.String("description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := client.NewTransaction{
		Title:       *title,
		Amount:      *amount,
		Type:        transactions.Type(strings.ToLower(*typ)),
		Category:    *cat,
		Description: *desc,
	}
	if *date != "" {
		t, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("bad -date: %w", err)
		}
		in.Date = t
	}

	t, err := d.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s\n", t.ID)
	return nil
}

func runEdit(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return errors.New("edit: missing transaction id")
	}
	id := args[0]

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	title := fs.String("title", "", "title")
	amount := fs.Float64("amount", 0, "amount")
	typ := fs.String("type", "", "income or expense")
	cat := fs.String("category", "", "category")
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	desc := fs.String("description", "", "description")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var ch client.Changes
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			ch.Title = title
		case "amount":
			ch.Amount = amount
		case "type":
			t := transactions.Type(strings.ToLower(*typ))
			ch.Type = &t
		case "category":
			ch.Category = cat
		case "description":
			ch.Description = desc
		case "date":
			t, err := time.Parse("2006-01-02", *date)
			if err != nil {
				parseErr = fmt.Errorf("bad -date: %w", err)
				return
			}
			ch.Date = &t
		}
	})
	if parseErr != nil {
		return parseErr
	}

	t, err := d.Edit(ctx, id, ch)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "updated %s\n", t.ID)
	return nil
}

func runDelete(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("delete: expected exactly one transaction id")
	}
	if err := d.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", args[0])
	return nil
}

func runCharts(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("charts", flag.ContinueOnError)
	year := fs.Int("year", time.Now().Year(), "calendar year for the monthly chart, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := d.Refresh(ctx); err != nil {
		return err
	}

	ch := d.Charts(*year)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "income\t%s\nexpense\t%s\nbalance\t%s\n\n",
		money.Format(ch.Totals.Income), money.Format(ch.Totals.Expense), money.Format(ch.Totals.Balance))

	fmt.Fprintln(tw, "CATEGORY\tEXPENSE")
	for _, c := range ch.ExpenseByCategory {
		fmt.Fprintf(tw, "%s\t%s\n", c.Category, money.Format(c.Total))
	}
	fmt.Fprintln(tw, "\nMONTH\tINCOME\tEXPENSE")
	for _, m := range ch.Monthly {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Month.String()[:3], money.Format(m.Income), money.Format(m.Expense))
	}
	return tw.Flush()
}

func runExport(ctx context.Context, d *dashboard.Dashboard, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "csv", "csv, yaml or pdf")
	path := fs.String("o", "", "output file, default stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := d.Refresh(ctx); err != nil {
		return err
	}

	w := out
	if *path != "" {
		f, err := os.Create(*path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	items := d.Visible()
	now := time.Now()
	switch strings.ToLower(*format) {
	case "csv":
		return export.WriteCSV(w, items)
	case "yaml", "yml":
		return export.WriteYAML(w, items, dashboard.BuildCharts(items, 0), now)
	case "pdf":
		return export.WritePDF(w, items, dashboard.BuildCharts(items, 0), now)
	}
	return fmt.Errorf("unknown export format %q", *format)
}

func printTable(out io.Writer, items []transactions.Transaction) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No transactions yet.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tTITLE\tCATEGORY\tAMOUNT")
	for _, t := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Type, t.Title, t.Category, money.FormatFloat(t.Amount))
	}
	tw.Flush()
}
