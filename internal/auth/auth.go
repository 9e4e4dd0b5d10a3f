package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated caller as asserted by the external identity
// provider's token. The service stores no user records of its own.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type VerifierAPI interface {
	Verify(tokenString string) (*Claims, error)
}

type userCtxKey struct{}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*User)
	return user, ok
}
