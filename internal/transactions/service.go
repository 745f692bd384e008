package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service implements the transaction resource. The verified owner id is
// passed explicitly to every call.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "transactions").Logger(),
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Transaction, error) {
	if !verified(ownerID) {
		return nil, ErrUnauthorized
	}

	items, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrStoreUnavailable, err)
	}
	if items == nil {
		items = []Transaction{}
	}
	return items, nil
}

// Create stores d for ownerID. The owner always comes from the verified identity.
func (s *Service) Create(ctx context.Context, ownerID string, d Draft) (Transaction, error) {
	if !verified(ownerID) {
		return Transaction{}, ErrUnauthorized
	}
	if err := d.Validate(); err != nil {
		return Transaction{}, err
	}

	now := normalizeTime(s.now())
	t := Transaction{
		OwnerID:     ownerID,
		Title:       d.Title,
		Amount:      d.Amount,
		Type:        d.Type,
		Date:        normalizeTime(d.Date),
		Category:    strings.TrimSpace(d.Category),
		Description: d.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.store.Insert(ctx, t)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: insert: %w", ErrStoreUnavailable, err)
	}

	s.log.Debug().Str("owner_id", ownerID).Str("id", created.ID).Msg("transaction created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, p Patch) (Transaction, error) {
	if err := s.Authorize(ctx, ownerID, id); err != nil {
		return Transaction{}, err
	}
	if err := p.Validate(); err != nil {
		return Transaction{}, err
	}
	if p.Date != nil {
		d := normalizeTime(*p.Date)
		p.Date = &d
	}

	updated, err := s.store.Update(ctx, id, ownerID, p, normalizeTime(s.now()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, fmt.Errorf("%w: update: %w", ErrStoreUnavailable, err)
	}

	s.log.Debug().Str("owner_id", ownerID).Str("id", id).Msg("transaction updated")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if !verified(ownerID) {
		return ErrUnauthorized
	}

	if err := s.authorize(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete: %w", ErrStoreUnavailable, err)
	}

	s.log.Debug().Str("owner_id", ownerID).Str("id", id).Msg("transaction deleted")
	return nil
}

// Authorize reports whether ownerID may modify id: ErrNotFound for an unknown
// record, ErrForbidden for someone else's. Ownership is settled before the
// body is judged, so a bad patch on another owner's record is still a 403.
func (s *Service) Authorize(ctx context.Context, ownerID, id string) error {
	if !verified(ownerID) {
		return ErrUnauthorized
	}
	return s.authorize(ctx, ownerID, id)
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// authorize loads id and checks it belongs to ownerID. It runs before any write.
func (s *Service) authorize(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: find: %w", ErrStoreUnavailable, err)
	}
	if existing.OwnerID != ownerID {
		s.log.Warn().Str("owner_id", ownerID).Str("id", id).Msg("ownership check failed")
		return ErrForbidden
	}
	return nil
}

func verified(ownerID string) bool {
	return strings.TrimSpace(ownerID) != ""
}
