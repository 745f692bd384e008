// Package dashboard holds the presentation state of a user's transaction list.
// All persistence goes through a Backend; a failed call leaves the list as it
// was and records a message for the user.
package dashboard

import (
	"context"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/client"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

const (
	MsgFetchFailed  = "Failed to fetch transactions. Please try again later."
	MsgAddFailed    = "Failed to add transaction."
	MsgUpdateFailed = "Failed to update transaction."
	MsgDeleteFailed = "Failed to delete transaction."
)

// Backend is the subset of client.Client the dashboard needs.
type Backend interface {
	List(ctx context.Context) ([]transactions.Transaction, error)
	Create(ctx context.Context, in client.NewTransaction) (transactions.Transaction, error)
	Update(ctx context.Context, id string, ch client.Changes) (transactions.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type Dashboard struct {
	backend Backend
	items   []transactions.Transaction
	errMsg  string

	Filter Filter
	Sort   Sort
}

func New(b Backend) *Dashboard {
	return &Dashboard{backend: b}
}

// Refresh replaces the list with the server's current state.
func (d *Dashboard) Refresh(ctx context.Context) error {
	items, err := d.backend.List(ctx)
	if err != nil {
		d.errMsg = MsgFetchFailed
		return err
	}
	d.items = items
	d.errMsg = ""
	return nil
}

// Add creates a transaction and puts it at the top of the list.
func (d *Dashboard) Add(ctx context.Context, in client.NewTransaction) (transactions.Transaction, error) {
	t, err := d.backend.Create(ctx, in)
	if err != nil {
		d.errMsg = MsgAddFailed
		return transactions.Transaction{}, err
	}
	d.items = append([]transactions.Transaction{t}, d.items...)
	d.errMsg = ""
	return t, nil
}

// Edit updates a transaction and replaces it in place.
func (d *Dashboard) Edit(ctx context.Context, id string, ch client.Changes) (transactions.Transaction, error) {
	t, err := d.backend.Update(ctx, id, ch)
	if err != nil {
		d.errMsg = MsgUpdateFailed
		return transactions.Transaction{}, err
	}
	for i := range d.items {
		if d.items[i].ID == id {
			d.items[i] = t
			break
		}
	}
	d.errMsg = ""
	return t, nil
}

// Remove deletes a transaction and drops it from the list.
func (d *Dashboard) Remove(ctx context.Context, id string) error {
	if err := d.backend.Delete(ctx, id); err != nil {
		d.errMsg = MsgDeleteFailed
		return err
	}
	kept := make([]transactions.Transaction, 0, len(d.items))
	for _, t := range d.items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	d.items = kept
	d.errMsg = ""
	return nil
}

// Err is the inline error left by the last failed call, or "".
func (d *Dashboard) Err() string { return d.errMsg }

// All returns a copy of the list in the order it was received.
func (d *Dashboard) All() []transactions.Transaction {
	return append([]transactions.Transaction(nil), d.items...)
}

// Visible returns the filtered and sorted list.
func (d *Dashboard) Visible() []transactions.Transaction {
	out := make([]transactions.Transaction, 0, len(d.items))
	for _, t := range d.items {
		if d.Filter.Match(t) {
			out = append(out, t)
		}
	}
	d.Sort.Apply(out)
	return out
}

// Charts aggregates the visible list.
func (d *Dashboard) Charts(year int) Charts {
	return BuildCharts(d.Visible(), year)
}
