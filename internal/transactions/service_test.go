package transactions_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/store/memstore"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

func newService() *transactions.Service {
	return transactions.NewService(memstore.New(), zerolog.Nop())
}

func draft(title string, amount float64, typ transactions.Type, date time.Time) transactions.Draft {
	return transactions.Draft{
		Title:    title,
		Amount:   amount,
		Type:     typ,
		Date:     date,
		Category: "General",
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateSetsOwnerAndTimestamps(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	got, err := svc.Create(ctx, alice, draft("Salary", 5000, transactions.TypeIncome, day(2024, 1, 15)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == "" {
		t.Error("expected an id")
	}
	if got.OwnerID != alice {
		t.Errorf("owner = %q, want %q", got.OwnerID, alice)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("createdAt = %v, updatedAt = %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.Amount != 5000 || got.Type != transactions.TypeIncome || got.Category != "General" {
		t.Errorf("unexpected record %+v", got)
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), " ", draft("x", 1, transactions.TypeIncome, day(2024, 1, 1)))
	if !errors.Is(err, transactions.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateValidates(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), alice, draft("x", -5, transactions.TypeIncome, day(2024, 1, 1)))
	if !errors.Is(err, transactions.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	items, _ := svc.List(context.Background(), alice)
	if len(items) != 0 {
		t.Errorf("invalid draft was stored: %+v", items)
	}
}

func TestListIsScopedAndNewestFirst(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, d := range []transactions.Draft{
		draft("Rent", 900, transactions.TypeExpense, day(2024, 2, 1)),
		draft("Salary", 5000, transactions.TypeIncome, day(2024, 3, 1)),
		draft("Coffee", 4, transactions.TypeExpense, day(2024, 1, 10)),
	} {
		if _, err := svc.Create(ctx, alice, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, bob, draft("Bob pay", 1, transactions.TypeIncome, day(2024, 4, 1))); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Salary", "Rent", "Coffee"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Title, title)
		}
		if items[i].OwnerID != alice {
			t.Errorf("items[%d] belongs to %q", i, items[i].OwnerID)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	items, err := newService().List(context.Background(), alice)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("got %#v, want empty slice", items)
	}
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	orig, err := svc.Create(ctx, alice, draft("Lunch", 12, transactions.TypeExpense, day(2024, 5, 5)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	amount := 15.5
	got, err := svc.Update(ctx, alice, orig.ID, transactions.Patch{Amount: &amount})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Amount != 15.5 {
		t.Errorf("amount = %v", got.Amount)
	}
	if got.ID != orig.ID || got.OwnerID != alice || got.Title != "Lunch" || !got.Date.Equal(orig.Date) {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", orig.CreatedAt, got.CreatedAt)
	}
	if got.UpdatedAt.Before(orig.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v -> %v", orig.UpdatedAt, got.UpdatedAt)
	}
}

func TestUpdateByAnotherUserIsForbidden(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	orig, err := svc.Create(ctx, alice, draft("Rent", 900, transactions.TypeExpense, day(2024, 2, 1)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "hacked"
	if _, err := svc.Update(ctx, bob, orig.ID, transactions.Patch{Title: &title}); !errors.Is(err, transactions.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, bob, orig.ID); !errors.Is(err, transactions.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	items, _ := svc.List(ctx, alice)
	if len(items) != 1 || items[0].Title != "Rent" {
		t.Errorf("record changed: %+v", items)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newService()
	title := "x"
	for _, id := range []string{"does-not-exist", ""} {
		_, err := svc.Update(context.Background(), alice, id, transactions.Patch{Title: &title})
		if !errors.Is(err, transactions.ErrNotFound) {
			t.Errorf("id %q: err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestUpdateChecksOwnershipBeforePatch(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	orig, err := svc.Create(ctx, alice, draft("Rent", 900, transactions.TypeExpense, day(2024, 2, 1)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	blank := ""
	bad := transactions.Patch{Title: &blank}
	if _, err := svc.Update(ctx, bob, orig.ID, bad); !errors.Is(err, transactions.ErrForbidden) {
		t.Errorf("other owner: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, alice, "does-not-exist", bad); !errors.Is(err, transactions.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, alice, orig.ID, bad); !errors.Is(err, transactions.ErrValidation) {
		t.Errorf("owner: err = %v, want ErrValidation", err)
	}
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	orig, _ := svc.Create(ctx, alice, draft("Lunch", 12, transactions.TypeExpense, day(2024, 5, 5)))

	if _, err := svc.Update(ctx, alice, orig.ID, transactions.Patch{}); !errors.Is(err, transactions.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDeleteTwice(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	orig, err := svc.Create(ctx, alice, draft("Gift", 30, transactions.TypeExpense, day(2024, 6, 1)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, alice, orig.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, alice, orig.ID); !errors.Is(err, transactions.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}

	items, _ := svc.List(ctx, alice)
	if len(items) != 0 {
		t.Errorf("still listed: %+v", items)
	}
}

func TestDateRoundTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	in := time.Date(2024, 7, 4, 18, 30, 15, 123456789, time.FixedZone("IST", 5*3600+1800))
	created, err := svc.Create(ctx, alice, draft("Fireworks", 20, transactions.TypeExpense, in))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, _ := svc.List(ctx, alice)
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	want := in.UTC().Truncate(time.Millisecond)
	if !items[0].Date.Equal(want) || items[0].Date.Location() != time.UTC {
		t.Errorf("date = %v, want %v", items[0].Date, want)
	}
	if !created.Date.Equal(items[0].Date) {
		t.Errorf("create returned %v, list returned %v", created.Date, items[0].Date)
	}
}

type brokenStore struct{ transactions.Store }

var errDown = errors.New("connection refused")

func (brokenStore) FindByOwner(context.Context, string) ([]transactions.Transaction, error) {
	return nil, errDown
}

func (brokenStore) Insert(context.Context, transactions.Transaction) (transactions.Transaction, error) {
	return transactions.Transaction{}, errDown
}

func (brokenStore) FindByID(context.Context, string) (transactions.Transaction, error) {
	return transactions.Transaction{}, errDown
}

func (brokenStore) Ping(context.Context) error { return errDown }

func TestStoreFailuresAreWrapped(t *testing.T) {
	svc := transactions.NewService(brokenStore{}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.List(ctx, alice)
	if !errors.Is(err, transactions.ErrStoreUnavailable) || !errors.Is(err, errDown) {
		t.Errorf("List err = %v", err)
	}
	_, err = svc.Create(ctx, alice, draft("x", 1, transactions.TypeIncome, day(2024, 1, 1)))
	if !errors.Is(err, transactions.ErrStoreUnavailable) {
		t.Errorf("Create err = %v", err)
	}
	if err := svc.Delete(ctx, alice, "any"); !errors.Is(err, transactions.ErrStoreUnavailable) {
		t.Errorf("Delete err = %v", err)
	}
	if err := svc.Ping(ctx); !errors.Is(err, transactions.ErrStoreUnavailable) {
		t.Errorf("Ping err = %v", err)
	}
}
