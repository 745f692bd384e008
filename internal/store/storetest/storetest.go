// Package storetest runs the same behavioural checks against every
// transactions.Store implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

// Run exercises a store returned by open. open is called once per subtest and
// must return an empty store.
func Run(t *testing.T, open func(t *testing.T) transactions.Store) {
	t.Run("InsertAndFind", func(t *testing.T) { testInsertAndFind(t, open(t)) })
	t.Run("OwnerScopedNewestFirst", func(t *testing.T) { testOwnerScoped(t, open(t)) })
	t.Run("SameDateNewestInsertFirst", func(t *testing.T) { testSameDate(t, open(t)) })
	t.Run("UpdateMatchesOwner", func(t *testing.T) { testUpdate(t, open(t)) })
	t.Run("DeleteMatchesOwner", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("UnknownIDs", func(t *testing.T) { testUnknownIDs(t, open(t)) })
}

func sample(owner, title string, date time.Time) transactions.Transaction {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return transactions.Transaction{
		OwnerID:     owner,
		Title:       title,
		Amount:      42.5,
		Type:        transactions.TypeExpense,
		Date:        date,
		Category:    "Food",
		Description: "sample",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 9, 30, 0, 0, time.UTC)
}

func testInsertAndFind(t *testing.T, s transactions.Store) {
	ctx := context.Background()

	in := sample("owner-a", "Groceries", day(3, 14))
	created, err := s.Insert(ctx, in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Insert returned no id")
	}

	got, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ID != created.ID || got.OwnerID != in.OwnerID || got.Title != in.Title ||
		got.Amount != in.Amount || got.Type != in.Type || got.Category != in.Category ||
		got.Description != in.Description {
		t.Errorf("got %+v, want %+v", got, in)
	}
	if !got.Date.Equal(in.Date) || !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("times changed: date %v -> %v, createdAt %v -> %v", in.Date, got.Date, in.CreatedAt, got.CreatedAt)
	}
}

func testOwnerScoped(t *testing.T, s transactions.Store) {
	ctx := context.Background()

	for _, tx := range []transactions.Transaction{
		sample("owner-a", "March", day(3, 1)),
		sample("owner-a", "May", day(5, 1)),
		sample("owner-b", "Other", day(6, 1)),
		sample("owner-a", "April", day(4, 1)),
	} {
		if _, err := s.Insert(ctx, tx); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := s.FindByOwner(ctx, "owner-a")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	want := []string{"May", "April", "March"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Title != w {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Title, w)
		}
	}

	none, err := s.FindByOwner(ctx, "owner-nobody")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d items for an unknown owner", len(none))
	}
}

func testSameDate(t *testing.T, s transactions.Store) {
	ctx := context.Background()

	// Identical dates and creation stamps; only insertion order separates them.
	stamp := time.Now().UTC().Truncate(time.Millisecond)
	titles := []string{"first", "second", "third", "fourth", "fifth"}
	for _, title := range titles {
		tx := sample("owner-a", title, day(7, 4))
		tx.CreatedAt, tx.UpdatedAt = stamp, stamp
		if _, err := s.Insert(ctx, tx); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := s.FindByOwner(ctx, "owner-a")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(items) != len(titles) {
		t.Fatalf("got %d items, want %d", len(items), len(titles))
	}
	for i, it := range items {
		if want := titles[len(titles)-1-i]; it.Title != want {
			t.Errorf("items[%d] = %q, want %q", i, it.Title, want)
		}
	}
}

func testUpdate(t *testing.T, s transactions.Store) {
	ctx := context.Background()

	created, err := s.Insert(ctx, sample("owner-a", "Lunch", day(2, 2)))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	title := "Dinner"
	amount := 60.0
	typ := transactions.TypeIncome
	stamp := time.Now().UTC().Add(time.Minute).Truncate(time.Millisecond)
	p := transactions.Patch{Title: &title, Amount: &amount, Type: &typ}

	if _, err := s.Update(ctx, created.ID, "owner-b", p, stamp); !errors.Is(err, transactions.ErrNotFound) {
		t.Fatalf("Update by other owner: err = %v, want ErrNotFound", err)
	}

	got, err := s.Update(ctx, created.ID, "owner-a", p, stamp)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Dinner" || got.Amount != 60 || got.Type != transactions.TypeIncome {
		t.Errorf("patched fields: %+v", got)
	}
	if got.Category != "Food" || got.OwnerID != "owner-a" || got.ID != created.ID {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(stamp) || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("timestamps: created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}

	again, err := s.FindByID(ctx, created.ID)
	if err != nil || again.Title != "Dinner" {
		t.Errorf("FindByID after update = %+v, %v", again, err)
	}
}

func testDelete(t *testing.T, s transactions.Store) {
	ctx := context.Background()

	created, err := s.Insert(ctx, sample("owner-a", "Taxi", day(1, 5)))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := s.Delete(ctx, created.ID, "owner-b"); !errors.Is(err, transactions.ErrNotFound) {
		t.Fatalf("Delete by other owner: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, created.ID, "owner-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, created.ID, "owner-a"); !errors.Is(err, transactions.ErrNotFound) {
		t.Fatalf("second Delete: err = %v, want ErrNotFound", err)
	}
	if _, err := s.FindByID(ctx, created.ID); !errors.Is(err, transactions.ErrNotFound) {
		t.Fatalf("FindByID after delete: err = %v, want ErrNotFound", err)
	}
}

func testUnknownIDs(t *testing.T, s transactions.Store) {
	ctx := context.Background()
	title := "x"

	// Well-formed for Mongo and Postgres respectively, plus garbage.
	for _, id := range []string{"65a1b2c3d4e5f60718293a4b", "2b1c8f0e-8a55-4b0c-9d3c-6a0a9b0c1d2e", "not-an-id"} {
		if _, err := s.FindByID(ctx, id); !errors.Is(err, transactions.ErrNotFound) {
			t.Errorf("FindByID(%q): %v", id, err)
		}
		if _, err := s.Update(ctx, id, "owner-a", transactions.Patch{Title: &title}, time.Now()); !errors.Is(err, transactions.ErrNotFound) {
			t.Errorf("Update(%q): %v", id, err)
		}
		if err := s.Delete(ctx, id, "owner-a"); !errors.Is(err, transactions.ErrNotFound) {
			t.Errorf("Delete(%q): %v", id, err)
		}
	}
}
