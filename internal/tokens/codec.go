package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/domain"
)

// UserClaims is the identity subset embedded in every token.
// Refresh tokens carry no role.
type UserClaims struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
	Role    string `json:"role,omitempty"`
}

type Claims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

// Expired reports whether the token's exp is missing or not after now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !c.ExpiresAt.Time.After(now)
}

type Codec struct {
	Secret        []byte
	Method        jwt.SigningMethod
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Now           func() time.Time
}

func NewCodec(secret []byte, accessExpiry, refreshExpiry time.Duration) *Codec {
	return &Codec{
		Secret:        secret,
		Method:        jwt.SigningMethodHS256,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
		Now:           time.Now,
	}
}

// Create signs a token for user. A zero expiry picks the default for the
// token kind.
func (c *Codec) Create(user UserClaims, refresh bool, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = c.AccessExpiry
		if refresh {
			expiry = c.RefreshExpiry
		}
	}

	now := c.Now()
	claims := Claims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(c.Method, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and structure only. Expiry and revocation are
// checked by the caller.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.Method.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.User.Email == "" {
		return nil, fmt.Errorf("%w: missing jti or user", domain.ErrInvalidToken)
	}
	return &claims, nil
}
