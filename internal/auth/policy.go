package auth

import (
	"context"

	"streamly/internal/domain"
)

type ctxUserKey struct{}

// WithUser stores the resolved identity on ctx.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// UserFrom returns the resolved identity stored on ctx, if any.
func UserFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxUserKey{}).(domain.User)
	return u, ok
}

// Authenticated allows any resolved identity.
func Authenticated(u *domain.User) error {
	if u == nil || u.ID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireRole allows a resolved identity holding role.
func RequireRole(u *domain.User, role domain.Role) error {
	if err := Authenticated(u); err != nil {
		return err
	}
	if u.Role != role {
		if role == domain.RoleArtist {
			return domain.Authorization("artist access required")
		}
		return domain.Authorization("insufficient privilege")
	}
	return nil
}

// Ownership has no check of its own: owner-scoped store statements filter by
// owner, so a foreign record is reported exactly like an absent one.
