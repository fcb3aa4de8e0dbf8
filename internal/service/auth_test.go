package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/testutil"
	"github.com/Skotchmaster/bookly/internal/tokens"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type authEnv struct {
	svc    *AuthService
	db     *gorm.DB
	mailer *fakeDispatcher
	redis  *miniredis.Miniredis
	bl     *blocklist.Store
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	gdb := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	bl := blocklist.New(rdb, time.Hour)
	mailer := &fakeDispatcher{}
	secret := []byte("url-secret")

	return &authEnv{
		svc: &AuthService{
			Repo:         repo.New(gdb),
			Codec:        tokens.NewCodec([]byte("jwt-secret"), time.Hour, 48*time.Hour),
			Blocklist:    bl,
			Mailer:       mailer,
			VerifyTokens: tokens.NewURLSafe(secret, tokens.PurposeEmailVerification, 24*time.Hour),
			ResetTokens:  tokens.NewURLSafe(secret, tokens.PurposePasswordReset, time.Hour),
			Domain:       "localhost:8080",
			AppName:      "Bookly",
		},
		db:     gdb,
		mailer: mailer,
		redis:  mr,
		bl:     bl,
	}
}

func signupReq(email string) transport.SignupRequest {
	return transport.SignupRequest{
		Username: "bob", Email: email, Password: "secret1", FirstName: "Bob", LastName: "Builder",
	}
}

// tokenFromLink pulls the trailing path segment out of the first href.
func tokenFromLink(t *testing.T, body, route string) string {
	t.Helper()
	marker := "/api/v1/auth/" + route + "/"
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "no %s link in %q", route, body)
	rest := body[i+len(marker):]
	return rest[:strings.IndexByte(rest, '"')]
}

func TestAuthService_Signup_DispatchesExactlyOneEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	user, err := env.svc.Signup(ctx, signupReq("bob@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "secret1"))

	require.Len(t, env.mailer.sent, 1)
	msg := env.mailer.sent[0]
	assert.Equal(t, []string{"bob@example.com"}, msg.Recipients)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.Body, "http://localhost:8080/api/v1/auth/verify/")
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, signupReq("bob@example.com"))
	require.NoError(t, err)

	_, err = env.svc.Signup(ctx, signupReq("bob@example.com"))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.Len(t, env.mailer.sent, 1)
}

func TestAuthService_Signup_DispatchFailureDoesNotFail(t *testing.T) {
	env := newAuthEnv(t)
	env.mailer.err = errors.New("broker down")

	user, err := env.svc.Signup(context.Background(), signupReq("bob@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.svc.Signup(ctx, signupReq("bob@example.com"))
	require.NoError(t, err)
	tok := tokenFromLink(t, env.mailer.sent[0].Body, "verify")

	require.NoError(t, env.svc.VerifyEmail(ctx, tok))

	var u models.User
	require.NoError(t, env.db.Where("email = ?", "bob@example.com").First(&u).Error)
	assert.True(t, u.IsVerified)

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, "garbage"), domain.ErrInvalidToken)

	orphan, err := env.svc.VerifyTokens.Encode("ghost@example.com")
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, orphan), domain.ErrUserNotFound)

	resetTok, err := env.svc.ResetTokens.Encode("bob@example.com")
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, resetTok), domain.ErrInvalidToken)
}

func TestAuthService_Login(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, "root@example.com", "secret1", models.RoleAdmin, true)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "wrong password", email: "root@example.com", password: "nope", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "secret1", wantErr: domain.ErrInvalidCredentials},
		{name: "ok", email: "root@example.com", password: "secret1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)

			access, err := env.svc.Codec.Decode(res.AccessToken)
			require.NoError(t, err)
			assert.False(t, access.Refresh)
			assert.Equal(t, models.RoleAdmin, access.User.Role)
			assert.Equal(t, admin.UID.String(), access.User.UserUID)

			refresh, err := env.svc.Codec.Decode(res.RefreshToken)
			require.NoError(t, err)
			assert.True(t, refresh.Refresh)
			assert.Empty(t, refresh.User.Role)
			assert.NotEqual(t, access.ID, refresh.ID)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "amy@example.com", "secret1", models.RoleUser, true)

	res, err := env.svc.Login(ctx, "amy@example.com", "secret1")
	require.NoError(t, err)
	refresh, err := env.svc.Codec.Decode(res.RefreshToken)
	require.NoError(t, err)

	tok, err := env.svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	access, err := env.svc.Codec.Decode(tok)
	require.NoError(t, err)
	assert.False(t, access.Refresh)
	assert.Equal(t, "amy@example.com", access.User.Email)

	accessClaims, err := env.svc.Codec.Decode(res.AccessToken)
	require.NoError(t, err)
	_, err = env.svc.Refresh(ctx, accessClaims)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRequired)

	refresh.ExpiresAt = nil
	_, err = env.svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_Logout_BlocklistsJTI(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "amy@example.com", "secret1", models.RoleUser, true)

	res, err := env.svc.Login(ctx, "amy@example.com", "secret1")
	require.NoError(t, err)
	claims, err := env.svc.Codec.Decode(res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, claims))

	revoked, err := env.bl.Contains(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	env.redis.Close()
	assert.ErrorIs(t, env.svc.Logout(ctx, claims), domain.ErrBlocklistUnavailable)
}

func TestAuthService_PasswordReset(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "amy@example.com", "secret1", models.RoleUser, true)

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "ghost@example.com"))
	assert.Empty(t, env.mailer.sent, "unknown emails get no message")

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "amy@example.com"))
	require.Len(t, env.mailer.sent, 1)
	tok := tokenFromLink(t, env.mailer.sent[0].Body, "password-reset-confirm")

	require.NoError(t, env.svc.ConfirmPasswordReset(ctx, tok, "newpass1", "newpass1"))

	_, err := env.svc.Login(ctx, "amy@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, "amy@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestAuthService_ConfirmPasswordReset_Errors(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	good, err := env.svc.ResetTokens.Encode("ghost@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		pw, cf  string
		wantErr error
	}{
		{name: "mismatch with bad token", token: "garbage", pw: "aaaaaa", cf: "bbbbbb", wantErr: domain.ErrPasswordMismatch},
		{name: "mismatch with good token", token: good, pw: "aaaaaa", cf: "bbbbbb", wantErr: domain.ErrPasswordMismatch},
		{name: "bad token", token: "garbage", pw: "aaaaaa", cf: "aaaaaa", wantErr: domain.ErrInvalidToken},
		{name: "unknown user", token: good, pw: "aaaaaa", cf: "aaaaaa", wantErr: domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.ConfirmPasswordReset(ctx, tt.token, tt.pw, tt.cf)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_MeAndSendEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "amy@example.com", "secret1", models.RoleUser, true)

	u, err := env.svc.Me(ctx, "amy@example.com")
	require.NoError(t, err)
	assert.Equal(t, "amy@example.com", u.Email)

	require.NoError(t, env.svc.SendEmail(ctx, []string{"a@x.com", "b@x.com"}))
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, env.mailer.sent[0].Recipients)

	env.mailer.err = errors.New("down")
	assert.ErrorIs(t, env.svc.SendEmail(ctx, []string{"a@x.com"}), domain.ErrInternal)
}

func TestAuthService_Login_UpgradesWeakDigest(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	weak, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := testutil.CreateUser(t, env.db, "old@example.com", "unused", models.RoleUser, true)
	require.NoError(t, env.db.Model(user).Update("password_hash", string(weak)).Error)

	_, err = env.svc.Login(ctx, "old@example.com", "secret1")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "old@example.com").First(&stored).Error)
	assert.False(t, hash.NeedsRehash(stored.PasswordHash))
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "secret1"))
}
