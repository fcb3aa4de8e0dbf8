package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "signup_failed", err)
	}

	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		return fail(l, "signup_failed", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account Created! Check email to verify your account",
		"user":    user,
	})
}

func (h *AuthHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_verify")

	if err := h.Svc.VerifyEmail(ctx, c.Param("token")); err != nil {
		return fail(l, "verify_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account verified successfully"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "login_failed", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successful",
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user": echo.Map{
			"email": res.User.Email,
			"uid":   res.User.UserUID,
		},
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	tok, err := h.Svc.Refresh(ctx, authmw.ClaimsFrom(c))
	if err != nil {
		return fail(l, "refresh_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": tok})
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	user, err := h.Svc.Me(ctx, authmw.ClaimsFrom(c).User.Email)
	if err != nil {
		return fail(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.Logout(ctx, authmw.ClaimsFrom(c)); err != nil {
		return fail(l, "logout_failed", err)
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged Out Successfully"})
}

func (h *AuthHandler) PasswordResetRequest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_password_reset_request")

	var req transport.PasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "password_reset_request_failed", err)
	}
	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		return fail(l, "password_reset_request_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Please check your email for instructions to reset your password",
	})
}

func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_password_reset_confirm")

	var req transport.PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "password_reset_failed", err)
	}
	// mismatch is reported before anything else, including token validity
	if req.NewPassword == req.ConfirmPassword {
		if err := c.Validate(&req); err != nil {
			return fail(l, "password_reset_failed", err)
		}
	}

	if err := h.Svc.ConfirmPasswordReset(ctx, c.Param("token"), req.NewPassword, req.ConfirmPassword); err != nil {
		return fail(l, "password_reset_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

func (h *AuthHandler) SendEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_send_email")

	var req transport.EmailListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "send_email_failed", err)
	}
	if err := h.Svc.SendEmail(ctx, req.Addresses); err != nil {
		return fail(l, "send_email_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email sent successfully"})
}
