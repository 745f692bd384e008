package transactions

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/auth"
)

type Handler struct {
	Service *Service
	Log     zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{Service: svc, Log: log}
}

// List handles GET /api/transactions.
func (h *Handler) List(c *fiber.Ctx) error {
	ownerID, _ := auth.OwnerID(c)

	items, err := h.Service.List(c.UserContext(), ownerID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

// Create handles POST /api/transactions.
func (h *Handler) Create(c *fiber.Ctx) error {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		return h.fail(c, ErrUnauthorized)
	}

	draft, err := DecodeDraft(c.Body())
	if err != nil {
		return h.fail(c, err)
	}

	t, err := h.Service.Create(c.UserContext(), ownerID, draft)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Update handles PUT /api/transactions/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		return h.fail(c, ErrUnauthorized)
	}

	patch, err := DecodePatch(c.Body())
	if err != nil {
		if aerr := h.Service.Authorize(c.UserContext(), ownerID, c.Params("id")); aerr != nil {
			return h.fail(c, aerr)
		}
		return h.fail(c, err)
	}

	t, err := h.Service.Update(c.UserContext(), ownerID, c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// Delete handles DELETE /api/transactions/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	ownerID, _ := auth.OwnerID(c)

	if err := h.Service.Delete(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// fail maps service errors onto HTTP responses. Internal details are logged, never returned.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ErrValidation.Error(),
			"fields": ve.Fields,
		})
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "No transaction found")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "User not authorized to modify this transaction")
	}

	h.Log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("transaction request failed")
	return fiber.NewError(fiber.StatusInternalServerError, "Server Error")
}
