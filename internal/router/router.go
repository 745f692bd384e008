package router

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/vantro-ledger/internal/auth"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/logging"
	"github.com/ishantswami13-crypto/vantro-ledger/internal/transactions"
)

type Router struct {
	TransactionsHandler *transactions.Handler
	Verifier            auth.Verifier
	// DevIssuer enables GET /dev/token when set.
	DevIssuer  *auth.Issuer
	Ping       func(ctx context.Context) error
	CORSOrigin string
	Log        zerolog.Logger
}

// NewApp returns a Fiber app whose errors render as {"error": message}.
func NewApp(log zerolog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "vantro-ledger",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log),
	})
}

func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(CorsMiddleware(r.CORSOrigin))
	app.Use(logging.RequestLogger(r.Log))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", r.healthz)

	if r.DevIssuer != nil {
		app.Get("/dev/token", auth.DevTokenHandler(r.DevIssuer))
	}

	if r.TransactionsHandler != nil {
		api := app.Group("/api/transactions", auth.Middleware(r.Verifier))
		api.Get("/", r.TransactionsHandler.List)
		api.Post("/", r.TransactionsHandler.Create)
		api.Put("/:id", r.TransactionsHandler.Update)
		api.Delete("/:id", r.TransactionsHandler.Delete)
	}
}

func (r *Router) healthz(c *fiber.Ctx) error {
	if r.Ping != nil {
		if err := r.Ping(c.UserContext()); err != nil {
			r.Log.Warn().Err(err).Msg("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
