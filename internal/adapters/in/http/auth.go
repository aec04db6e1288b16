package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Claims are issued by the session service. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate resolves the bearer token into an order.Actor stored on the
// echo context. Only HMAC-signed tokens are accepted.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := parseActor(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func parseActor(raw string, secret []byte) (order.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return order.Actor{}, err
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return order.Actor{}, fmt.Errorf("subject: %w", err)
	}
	role, err := customer.ParseRole(claims.Role)
	if err != nil {
		return order.Actor{}, fmt.Errorf("role: %w", err)
	}
	return order.NewActor(id, role)
}

var errNoActor = errors.New("request is not authenticated")

func actorFrom(c echo.Context) (order.Actor, error) {
	actor, ok := c.Get(actorKey).(order.Actor)
	if !ok {
		return order.Actor{}, echo.NewHTTPError(http.StatusUnauthorized).SetInternal(errNoActor)
	}
	return actor, nil
}

// RequireAdmin rejects actors without the admin role. It must run after
// Authenticate.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}
