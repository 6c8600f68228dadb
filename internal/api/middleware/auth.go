package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/internal/utils/response"
)

const CartContextKey = contextKey("cartClaims")

type tokenParser interface {
	ParseToken(tokenString string) (*models.CartClaims, error)
}

// CartAuthMiddleware resolves the signed cart token on cart routes and
// puts its claims on the request context.
type CartAuthMiddleware struct {
	parser tokenParser
}

func NewCartAuthMiddleware(parser tokenParser) *CartAuthMiddleware {
	return &CartAuthMiddleware{parser: parser}
}

func (m *CartAuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Cart token is required"))
			return
		}

		// Token is of format: "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims, err := m.parser.ParseToken(tokenParts[1])
		if err != nil {
			logger.Warn("Cart token parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired cart token"))
			return
		}

		ctx := context.WithValue(r.Context(), CartContextKey, claims)

		requestScopedLogger := logger.With(slog.String("cartId", claims.CartID.String()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CartClaimsFromContext returns the claims the auth middleware attached.
func CartClaimsFromContext(ctx context.Context) (*models.CartClaims, bool) {
	claims, ok := ctx.Value(CartContextKey).(*models.CartClaims)

	return claims, ok
}
