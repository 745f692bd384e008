package transactions

import (
	"strings"
	"time"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

const (
	MaxTitleLen       = 50
	MaxDescriptionLen = 100
)

// Transaction is a single income or expense owned by exactly one user.
type Transaction struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Type        Type      `json:"type"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Draft is the user-supplied part of a new transaction.
type Draft struct {
	Title       string
	Amount      float64
	Type        Type
	Date        time.Time
	Category    string
	Description string
}

// Patch holds the fields of an update; nil fields are left untouched.
type Patch struct {
	Title       *string
	Amount      *float64
	Type        *Type
	Date        *time.Time
	Category    *string
	Description *string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Type == nil &&
		p.Date == nil && p.Category == nil && p.Description == nil
}

// Apply copies the set fields of p onto t. Id, owner and creation time never change.
func (p Patch) Apply(t *Transaction) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}

func normalizeType(t string) Type {
	switch Type(strings.TrimSpace(strings.ToLower(t))) {
	case TypeIncome:
		return TypeIncome
	case TypeExpense:
		return TypeExpense
	}
	return ""
}

// normalizeTime puts t in UTC at millisecond precision, the finest every store keeps.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
