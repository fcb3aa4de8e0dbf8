package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/domain"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-jwt-secret"), time.Hour, 48*time.Hour)
}

var alice = UserClaims{Email: "alice@example.com", UserUID: "3f0c7f8e-1111-4c1e-9d4a-0b0b0b0b0b0b", Role: "user"}

func TestCodec_CreateAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	before := time.Now()

	tok, err := c.Create(alice, false, 0)
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)

	assert.Equal(t, alice, claims.User)
	assert.False(t, claims.Refresh)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, before.Add(time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestCodec_CreateRefreshToken_UsesRefreshDefault(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	before := time.Now()
	user := UserClaims{Email: alice.Email, UserUID: alice.UserUID}

	tok, err := c.Create(user, true, 0)
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
	assert.Empty(t, claims.User.Role)
	assert.WithinDuration(t, before.Add(48*time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestCodec_JTIUniquePerToken(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		tok, err := c.Create(alice, false, time.Minute)
		require.NoError(t, err)
		claims, err := c.Decode(tok)
		require.NoError(t, err)
		_, dup := seen[claims.ID]
		require.False(t, dup, "jti reused: %s", claims.ID)
		seen[claims.ID] = struct{}{}
	}
}

func TestCodec_DecodeDoesNotRejectExpired(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	c.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := c.Create(alice, false, time.Hour)
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}

func TestCodec_Decode_Invalid(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	good, err := c.Create(alice, false, 0)
	require.NoError(t, err)

	other := NewCodec([]byte("another-secret"), time.Hour, time.Hour)
	foreign, err := other.Create(alice, false, 0)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"jti": "x", "user": map[string]any{"email": "a@x.com"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "tampered", token: good[:len(good)-2] + "xx"},
		{name: "foreign secret", token: foreign},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := c.Decode(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&Claims{}).Expired(now))
	assert.True(t, (&Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))}}).Expired(now))
	assert.False(t, (&Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}).Expired(now))
}
