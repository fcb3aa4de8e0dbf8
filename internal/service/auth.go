package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/tokens"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserProfile(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User, fields map[string]any) error
}

type Blocklist interface {
	Add(ctx context.Context, jti string) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Dispatcher queues an email for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg mail.Message) error
}

type AuthService struct {
	Repo         UserRepo
	Codec        *tokens.Codec
	Blocklist    Blocklist
	Mailer       Dispatcher
	VerifyTokens *tokens.URLSafe
	ResetTokens  *tokens.URLSafe
	// Domain is the host used in emailed links.
	Domain  string
	AppName string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         tokens.UserClaims
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "email", req.Email)

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			l.Warn("signup_error", "status", 400, "reason", "password too long")
			return nil, err
		}
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		IsVerified:   false,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			l.Warn("signup_error", "status", 409, "reason", "user already exists")
		}
		return nil, err
	}

	tok, err := s.VerifyTokens.Encode(user.Email)
	if err != nil {
		l.Error("signup_verify_token_error", "error", err)
		return user, nil
	}
	msg, err := mail.VerificationEmail(user.Email, user.FirstName, s.link("verify", tok))
	if err != nil {
		l.Error("signup_render_email_error", "error", err)
		return user, nil
	}
	s.dispatch(ctx, msg)

	l.Info("signup_success", "user_uid", user.UID)
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify")

	email, err := s.VerifyTokens.Decode(token)
	if err != nil {
		l.Warn("verify_failed", "status", 401, "reason", "bad token", "error", err)
		return err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateUser(ctx, user, map[string]any{"is_verified": true}); err != nil {
		return err
	}

	l.Info("verify_success", "email", email)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 400, "reason", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if hash.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	claims := tokens.UserClaims{Email: user.Email, UserUID: user.UID.String(), Role: user.Role}
	access, err := s.Codec.Create(claims, false, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Codec.Create(tokens.UserClaims{Email: user.Email, UserUID: user.UID.String()}, true, 0)
	if err != nil {
		return nil, err
	}

	l.Info("login_success")
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: claims}, nil
}

// Refresh issues a new access token from a decoded refresh token. The role is
// not carried by refresh tokens, so the new access token has none either.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.Claims) (string, error) {
	if claims == nil || !claims.Refresh {
		return "", domain.ErrRefreshTokenRequired
	}
	if claims.Expired(s.now()) {
		logging.FromContext(ctx).Warn("refresh_failed", "svc", "auth.refresh", "status", 401, "reason", "expired")
		return "", domain.ErrInvalidToken
	}
	return s.Codec.Create(claims.User, false, 0)
}

// Logout revokes the presented access token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	if err := s.Blocklist.Add(ctx, claims.ID); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "svc", "auth.logout", "status", 503, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrBlocklistUnavailable, err)
	}
	return nil
}

// RequestPasswordReset never reveals whether the email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset_request")

	if _, err := s.Repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			l.Info("password_reset_unknown_email")
			return nil
		}
		return err
	}

	tok, err := s.ResetTokens.Encode(email)
	if err != nil {
		return err
	}
	msg, err := mail.PasswordResetEmail(email, s.link("password-reset-confirm", tok))
	if err != nil {
		return err
	}
	s.dispatch(ctx, msg)
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset_confirm")

	if newPassword != confirmPassword {
		l.Warn("password_reset_failed", "status", 400, "reason", "passwords do not match")
		return domain.ErrPasswordMismatch
	}

	email, err := s.ResetTokens.Decode(token)
	if err != nil {
		l.Warn("password_reset_failed", "status", 401, "reason", "bad token", "error", err)
		return err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			l.Warn("password_reset_failed", "status", 400, "reason", "password too long")
			return err
		}
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.UpdateUser(ctx, user, map[string]any{"password_hash": pwHash}); err != nil {
		return err
	}

	l.Info("password_reset_success", "email", email)
	return nil
}

func (s *AuthService) Me(ctx context.Context, email string) (*models.User, error) {
	return s.Repo.GetUserProfile(ctx, email)
}

// SendEmail queues a welcome message to arbitrary addresses.
func (s *AuthService) SendEmail(ctx context.Context, addresses []string) error {
	msg, err := mail.WelcomeEmail(addresses, s.AppName)
	if err != nil {
		return err
	}
	if err := s.Mailer.Dispatch(ctx, msg); err != nil {
		logging.FromContext(ctx).Error("send_email_failed", "svc", "auth.send_email", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return nil
}

// rehash upgrades a digest made with an older cost. Failures only cost a
// future rehash, so they are logged and login proceeds.
func (s *AuthService) rehash(ctx context.Context, user *models.User, password string) {
	digest, err := hash.HashPassword(password)
	if err == nil {
		err = s.Repo.UpdateUser(ctx, user, map[string]any{"password_hash": digest})
	}
	if err != nil {
		logging.FromContext(ctx).Warn("rehash_failed", "svc", "auth.login", "error", err)
	}
}

func (s *AuthService) dispatch(ctx context.Context, msg mail.Message) {
	if err := s.Mailer.Dispatch(ctx, msg); err != nil {
		logging.FromContext(ctx).Error("email_dispatch_failed", "subject", msg.Subject, "error", err)
	}
}

func (s *AuthService) link(route, token string) string {
	return fmt.Sprintf("http://%s/api/v1/auth/%s/%s", s.Domain, route, token)
}

func (s *AuthService) now() time.Time {
	if s.Codec != nil && s.Codec.Now != nil {
		return s.Codec.Now()
	}
	return time.Now()
}
