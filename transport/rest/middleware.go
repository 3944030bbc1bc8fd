package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// BearerAuth rejects requests without a valid bearer token and stashes the
// authenticated user id in the request context.
func BearerAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			}

			ctx.Set(userIDContextKey, userID)

			return next(ctx)
		}
	}
}

func userIDFrom(ctx echo.Context) string {
	userID, _ := ctx.Get(userIDContextKey).(string)
	return userID
}
