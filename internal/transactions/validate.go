package transactions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/money"
)

// body is the wire shape of create and update requests.
type body struct {
	Title       *string         `json:"title"`
	Amount      json.RawMessage `json:"amount"`
	Type        *string         `json:"type"`
	Date        *string         `json:"date"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`

	// Server-owned keys a client may echo back. Always ignored.
	ID        json.RawMessage `json:"id"`
	MongoID   json.RawMessage `json:"_id"`
	OwnerID   json.RawMessage `json:"ownerId"`
	UserID    json.RawMessage `json:"userId"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
	Version   json.RawMessage `json:"__v"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DecodeDraft strictly decodes and validates a create request body.
func DecodeDraft(data []byte) (Draft, error) {
	b, err := decodeBody(data)
	if err != nil {
		return Draft{}, err
	}

	ve := &ValidationError{}
	var d Draft

	if b.Title == nil {
		ve.add("title", "is required")
	} else {
		d.Title = *b.Title
	}

	if present(b.Amount) {
		amt, err := parseAmount(b.Amount)
		if err != nil {
			ve.add("amount", "must be a number")
		}
		d.Amount = amt
	} else {
		ve.add("amount", "is required")
	}

	if b.Type == nil {
		ve.add("type", "is required")
	} else {
		d.Type = normalizeType(*b.Type)
	}

	if b.Date == nil {
		ve.add("date", "is required")
	} else if dt, err := parseDate(*b.Date); err != nil {
		ve.add("date", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	} else {
		d.Date = dt
	}

	if b.Category == nil {
		ve.add("category", "is required")
	} else {
		d.Category = strings.TrimSpace(*b.Category)
	}

	if b.Description != nil {
		d.Description = *b.Description
	}

	d.check(ve)
	return d, ve.orNil()
}

// DecodePatch strictly decodes and validates an update request body.
func DecodePatch(data []byte) (Patch, error) {
	b, err := decodeBody(data)
	if err != nil {
		return Patch{}, err
	}

	ve := &ValidationError{}
	var p Patch

	p.Title = b.Title
	if present(b.Amount) {
		amt, err := parseAmount(b.Amount)
		if err != nil {
			ve.add("amount", "must be a number")
		} else {
			p.Amount = &amt
		}
	}
	if b.Type != nil {
		t := normalizeType(*b.Type)
		p.Type = &t
	}
	if b.Date != nil {
		dt, err := parseDate(*b.Date)
		if err != nil {
			ve.add("date", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
		} else {
			p.Date = &dt
		}
	}
	if b.Category != nil {
		c := strings.TrimSpace(*b.Category)
		p.Category = &c
	}
	p.Description = b.Description

	if len(ve.Fields) == 0 {
		p.check(ve)
	}
	return p, ve.orNil()
}

// Validate checks d against the field constraints.
func (d Draft) Validate() error {
	ve := &ValidationError{}
	d.check(ve)
	return ve.orNil()
}

func (d Draft) check(ve *ValidationError) {
	checkTitle(ve, d.Title)
	checkAmount(ve, d.Amount)
	checkType(ve, d.Type)
	if d.Date.IsZero() {
		ve.add("date", "is required")
	}
	checkCategory(ve, d.Category)
	checkDescription(ve, d.Description)
}

// Validate checks the set fields of p and rejects an empty patch.
func (p Patch) Validate() error {
	ve := &ValidationError{}
	p.check(ve)
	return ve.orNil()
}

func (p Patch) check(ve *ValidationError) {
	if p.IsEmpty() {
		ve.add("body", "no updatable fields")
		return
	}
	if p.Title != nil {
		checkTitle(ve, *p.Title)
	}
	if p.Amount != nil {
		checkAmount(ve, *p.Amount)
	}
	if p.Type != nil {
		checkType(ve, *p.Type)
	}
	if p.Date != nil && p.Date.IsZero() {
		ve.add("date", "is required")
	}
	if p.Category != nil {
		checkCategory(ve, *p.Category)
	}
	if p.Description != nil {
		checkDescription(ve, *p.Description)
	}
}

func checkTitle(ve *ValidationError, s string) {
	switch {
	case strings.TrimSpace(s) == "":
		ve.add("title", "is required")
	case textLen(s) > MaxTitleLen:
		ve.add("title", fmt.Sprintf("must be at most %d characters", MaxTitleLen))
	}
}

func checkAmount(ve *ValidationError, v float64) {
	if err := money.Validate(v); err != nil {
		ve.add("amount", "must be a non-negative number")
	}
}

func checkType(ve *ValidationError, t Type) {
	if t != TypeIncome && t != TypeExpense {
		ve.add("type", "must be income or expense")
	}
}

func checkCategory(ve *ValidationError, s string) {
	if strings.TrimSpace(s) == "" {
		ve.add("category", "is required")
	}
}

func checkDescription(ve *ValidationError, s string) {
	if textLen(s) > MaxDescriptionLen {
		ve.add("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLen))
	}
}

func decodeBody(data []byte) (body, error) {
	var b body
	if len(bytes.TrimSpace(data)) == 0 {
		return b, &ValidationError{Fields: map[string]string{"body": "is required"}}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return b, decodeError(err)
	}
	// Exactly one object: trailing values or bytes are malformed.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return b, &ValidationError{Fields: map[string]string{"body": "malformed JSON object"}}
	}
	return b, nil
}

// textLen counts UTF-16 code units, the unit browser form maxlength and the
// original document schema limits use.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func decodeError(err error) error {
	ve := &ValidationError{}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		ve.add(typeErr.Field, "has the wrong type")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		ve.add(name, "unknown field")
	default:
		ve.add("body", "malformed JSON object")
	}
	return ve
}

func present(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) > 0 && !bytes.Equal(s, []byte("null"))
}

// parseAmount accepts a JSON number or a numeric string, as HTML number inputs submit.
func parseAmount(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeTime(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
