package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/client"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

var errOffline = errors.New("offline")

type fakeBackend struct {
	items []transactions.Transaction
	fail  bool
	seq   int
}

func (f *fakeBackend) List(context.Context) ([]transactions.Transaction, error) {
	if f.fail {
		return nil, errOffline
	}
	return append([]transactions.Transaction(nil), f.items...), nil
}

func (f *fakeBackend) Create(_ context.Context, in client.NewTransaction) (transactions.Transaction, error) {
	if f.fail {
		return transactions.Transaction{}, errOffline
	}
	f.seq++
	t := transactions.Transaction{
		ID: string(rune('a' + f.seq)), Title: in.Title, Amount: in.Amount,
		Type: in.Type, Date: in.Date, Category: in.Category,
	}
	f.items = append([]transactions.Transaction{t}, f.items...)
	return t, nil
}

func (f *fakeBackend) Update(_ context.Context, id string, ch client.Changes) (transactions.Transaction, error) {
	if f.fail {
		return transactions.Transaction{}, errOffline
	}
	for i := range f.items {
		if f.items[i].ID == id {
			if ch.Title != nil {
				f.items[i].Title = *ch.Title
			}
			if ch.Amount != nil {
				f.items[i].Amount = *ch.Amount
			}
			return f.items[i], nil
		}
	}
	return transactions.Transaction{}, transactions.ErrNotFound
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	if f.fail {
		return errOffline
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return transactions.ErrNotFound
}

func seeded() *fakeBackend {
	return &fakeBackend{items: []transactions.Transaction{
		{ID: "1", Title: "Salary", Amount: 5000, Type: transactions.TypeIncome, Category: "Work", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Rent", Amount: 1200, Type: transactions.TypeExpense, Category: "Housing", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Title: "Groceries", Amount: 150.25, Type: transactions.TypeExpense, Category: "Food", Date: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), Description: "weekly shop"},
	}}
}

func TestRefresh(t *testing.T) {
	d := New(seeded())
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(d.All()); got != 3 {
		t.Errorf("got %d items", got)
	}
	if d.Err() != "" {
		t.Errorf("Err() = %q", d.Err())
	}
}

func TestFailuresKeepState(t *testing.T) {
	b := seeded()
	d := New(b)
	ctx := context.Background()
	if err := d.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	before := d.All()

	b.fail = true
	title := "x"
	steps := []struct {
		name string
		run  func() error
		msg  string
	}{
		{"refresh", func() error { return d.Refresh(ctx) }, MsgFetchFailed},
		{"add", func() error { _, err := d.Add(ctx, client.NewTransaction{Title: "x"}); return err }, MsgAddFailed},
		{"edit", func() error { _, err := d.Edit(ctx, "1", client.Changes{Title: &title}); return err }, MsgUpdateFailed},
		{"remove", func() error { return d.Remove(ctx, "1") }, MsgDeleteFailed},
	}
	for _, s := range steps {
		if err := s.run(); !errors.Is(err, errOffline) {
			t.Errorf("%s: err = %v", s.name, err)
		}
		if d.Err() != s.msg {
			t.Errorf("%s: Err() = %q, want %q", s.name, d.Err(), s.msg)
		}
		after := d.All()
		if len(after) != len(before) {
			t.Fatalf("%s: list changed from %d to %d items", s.name, len(before), len(after))
		}
		for i := range before {
			if after[i] != before[i] {
				t.Errorf("%s: item %d changed", s.name, i)
			}
		}
	}

	b.fail = false
	if err := d.Refresh(ctx); err != nil || d.Err() != "" {
		t.Errorf("recovery: %v, %q", err, d.Err())
	}
}

func TestAddEditRemove(t *testing.T) {
	d := New(seeded())
	ctx := context.Background()
	_ = d.Refresh(ctx)

	added, err := d.Add(ctx, client.NewTransaction{Title: "Coffee", Amount: 3, Type: transactions.TypeExpense, Category: "Food"})
	if err != nil {
		t.Fatal(err)
	}
	if all := d.All(); all[0].ID != added.ID || len(all) != 4 {
		t.Errorf("new item not at top: %+v", all)
	}

	amount := 4.5
	if _, err := d.Edit(ctx, "2", client.Changes{Amount: &amount}); err != nil {
		t.Fatal(err)
	}
	if all := d.All(); all[2].ID != "2" || all[2].Amount != 4.5 {
		t.Errorf("edit not applied in place: %+v", all[2])
	}

	if err := d.Remove(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	for _, it := range d.All() {
		if it.ID == "2" {
			t.Error("removed item still listed")
		}
	}
}

func TestVisibleFiltersAndSorts(t *testing.T) {
	d := New(seeded())
	_ = d.Refresh(context.Background())

	d.Filter = Filter{Type: transactions.TypeExpense}
	d.Sort = Sort{Field: ByAmount, Ascending: true}
	got := d.Visible()
	if len(got) != 2 || got[0].Title != "Groceries" || got[1].Title != "Rent" {
		t.Errorf("expense by amount asc: %+v", got)
	}

	d.Filter = Filter{Query: "WEEKLY"}
	d.Sort = Sort{}
	if got := d.Visible(); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("query match on description: %+v", got)
	}

	d.Filter = Filter{From: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	got = d.Visible()
	if len(got) != 2 || got[0].Title != "Salary" || got[1].Title != "Groceries" {
		t.Errorf("date range, newest first: %+v", got)
	}

	d.Filter = Filter{Category: " housing "}
	if got := d.Visible(); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("category: %+v", got)
	}

	if len(d.All()) != 3 || d.All()[0].ID != "1" {
		t.Error("Visible must not reorder the underlying list")
	}
}

func TestParseSort(t *testing.T) {
	cases := map[string]Sort{
		"":             {},
		"amount":       {Field: ByAmount},
		"Title:ASC":    {Field: ByTitle, Ascending: true},
		" date:desc ":  {Field: ByDate},
		"category:asc": {Field: ByCategory, Ascending: true},
	}
	for in, want := range cases {
		got, err := ParseSort(in)
		if err != nil || got != want {
			t.Errorf("ParseSort(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"size", "date:sideways"} {
		if _, err := ParseSort(bad); err == nil {
			t.Errorf("ParseSort(%q) accepted", bad)
		}
	}
}
