package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const devOwnerID = "11111111-1111-1111-1111-111111111111"

// Issuer signs HS256 tokens for local development and tests.
type Issuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{Secret: secret, Issuer: issuer, TTL: ttl, now: time.Now}
}

func (i *Issuer) Issue(ownerID string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": ownerID,
		"iat": now.Unix(),
	}
	if i.TTL > 0 {
		claims["exp"] = now.Add(i.TTL).Unix()
	}
	if i.Issuer != "" {
		claims["iss"] = i.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
}

// DevTokenHandler serves GET /dev/token?sub=<owner>.
func DevTokenHandler(i *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub := strings.TrimSpace(c.Query("sub"))
		if sub == "" {
			sub = devOwnerID
		}
		signed, err := i.Issue(sub)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}
		return c.JSON(fiber.Map{"token": signed, "sub": sub})
	}
}
