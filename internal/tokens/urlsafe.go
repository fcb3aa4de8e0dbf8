package tokens

import (
	"fmt"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/Skotchmaster/bookly/internal/domain"
)

const (
	PurposeEmailVerification = "email-verification"
	PurposePasswordReset     = "password-reset"
)

type urlPayload struct {
	Email string `json:"email"`
}

// URLSafe issues timestamped, HMAC-signed tokens meant to travel inside links.
// The purpose is mixed into the MAC, so a token for one purpose never decodes
// under another.
type URLSafe struct {
	purpose string
	codec   *securecookie.SecureCookie
}

func NewURLSafe(secret []byte, purpose string, maxAge time.Duration) *URLSafe {
	codec := securecookie.New(secret, nil).
		MaxAge(int(maxAge / time.Second)).
		MaxLength(0)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &URLSafe{purpose: purpose, codec: codec}
}

func (u *URLSafe) Encode(email string) (string, error) {
	tok, err := u.codec.Encode(u.purpose, urlPayload{Email: email})
	if err != nil {
		return "", fmt.Errorf("encode %s token: %w", u.purpose, err)
	}
	return tok, nil
}

func (u *URLSafe) Decode(token string) (string, error) {
	var p urlPayload
	if err := u.codec.Decode(u.purpose, token, &p); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if p.Email == "" {
		return "", fmt.Errorf("%w: empty email", domain.ErrInvalidToken)
	}
	return p.Email, nil
}
