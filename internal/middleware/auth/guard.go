// Package authmw guards echo routes with bearer JWTs, the revocation
// blocklist and role checks.
package authmw

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

const (
	claimsKey = "token_claims"
	userKey   = "current_user"
)

type Blocklist interface {
	Contains(ctx context.Context, jti string) (bool, error)
}

type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Guard struct {
	Codec     *tokens.Codec
	Blocklist Blocklist
	Users     UserLookup
}

func NewGuard(codec *tokens.Codec, bl Blocklist, users UserLookup) *Guard {
	return &Guard{Codec: codec, Blocklist: bl, Users: users}
}

// RequireAccess admits requests carrying a live access token.
func (g *Guard) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return g.require(false, next)
}

// RequireRefresh admits requests carrying a live refresh token.
func (g *Guard) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return g.require(true, next)
}

func (g *Guard) require(refresh bool, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := g.authenticate(c, refresh)
		if err != nil {
			logging.FromContext(c.Request().Context()).Warn("auth_rejected",
				"middleware", "auth_guard", "reason", err.Error())
			return err
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

func (g *Guard) authenticate(c echo.Context, wantRefresh bool) (*tokens.Claims, error) {
	raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	claims, err := g.Codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.Expired(g.Codec.Now()) {
		return nil, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
	}

	// the kind is known from the token alone, so it never waits on the store
	switch {
	case wantRefresh && !claims.Refresh:
		return nil, domain.ErrRefreshTokenRequired
	case !wantRefresh && claims.Refresh:
		return nil, domain.ErrAccessTokenRequired
	}

	revoked, err := g.Blocklist.Contains(c.Request().Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBlocklistUnavailable, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", domain.ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUser loads the user named by the token. Mount after RequireAccess.
func (g *Guard) CurrentUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := g.loadUser(c); err != nil {
			return err
		}
		return next(c)
	}
}

// RequireRoles admits verified users whose stored role is one of roles.
// Mount after RequireAccess.
func (g *Guard) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := g.loadUser(c)
			if err != nil {
				return err
			}
			if !user.IsVerified {
				return domain.ErrAccountNotVerified
			}
			if !slices.Contains(roles, user.Role) {
				logging.FromContext(c.Request().Context()).Warn("auth_rejected",
					"middleware", "role_checker", "role", user.Role, "allowed", roles)
				return domain.ErrInsufficientPermission
			}
			return next(c)
		}
	}
}

func (g *Guard) loadUser(c echo.Context) (*models.User, error) {
	if u := UserFrom(c); u != nil {
		return u, nil
	}
	claims := ClaimsFrom(c)
	if claims == nil {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := g.Users.GetUserByEmail(c.Request().Context(), claims.User.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load current user: %w", err)
	}
	c.Set(userKey, user)
	return user, nil
}

func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(claimsKey).(*tokens.Claims)
	return claims
}

func UserFrom(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func bearer(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
