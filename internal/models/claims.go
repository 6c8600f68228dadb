package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CartClaims binds a signed session token to a single cart. The token is
// issued when a cart is created and is the only handle the caller has on it.
type CartClaims struct {
	CartID uuid.UUID `json:"cartId"`
	jwt.RegisteredClaims
}
