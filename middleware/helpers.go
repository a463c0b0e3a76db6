package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/utils"
)

var ErrNoUserInContext = errors.New("user claims not found in context")

func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*utils.Claims)
	return claims, ok && claims != nil
}

func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return "", ErrNoUserInContext
	}
	return claims.UserID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", ErrNoUserInContext
	}
	return claims.Role, nil
}

// WithClaims stores claims in ctx the way Authenticate does.
func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}
