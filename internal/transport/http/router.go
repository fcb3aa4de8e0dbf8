package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/handlers"
	"github.com/Skotchmaster/bookly/internal/logging"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	DB        *gorm.DB
	Blocklist Pinger
	Guard     *authmw.Guard

	AuthHandler   *handlers.AuthHandler
	BookHandler   *handlers.BookHandler
	ReviewHandler *handlers.ReviewHandler
	TagHandler    *handlers.TagHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	g := d.Guard
	anyRole := g.RequireRoles(models.RoleAdmin, models.RoleUser)
	adminOnly := g.RequireRoles(models.RoleAdmin)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.GET("/verify/:token", d.AuthHandler.Verify)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/refresh_token", d.AuthHandler.Refresh, g.RequireRefresh)
	auth.GET("/me", d.AuthHandler.Me, g.RequireAccess, anyRole)
	auth.GET("/logout", d.AuthHandler.Logout, g.RequireAccess)
	auth.POST("/password-reset-request", d.AuthHandler.PasswordResetRequest)
	auth.POST("/password-reset-confirm/:token", d.AuthHandler.PasswordResetConfirm)
	auth.POST("/send-email", d.AuthHandler.SendEmail, g.RequireAccess, adminOnly)

	books := v1.Group("/books", g.RequireAccess, anyRole)
	books.GET("", d.BookHandler.List)
	books.POST("", d.BookHandler.Create)
	books.GET("/search", d.BookHandler.Search)
	books.GET("/user/:user_uid", d.BookHandler.UserBooks)
	books.GET("/:book_uid", d.BookHandler.Get)
	books.PATCH("/:book_uid", d.BookHandler.Update)
	books.DELETE("/:book_uid", d.BookHandler.Delete)

	reviews := v1.Group("/reviews")
	reviews.GET("", d.ReviewHandler.List)
	reviews.GET("/:review_uid", d.ReviewHandler.Get, g.RequireAccess, anyRole)
	reviews.POST("/book/:book_uid", d.ReviewHandler.Add, g.RequireAccess, g.CurrentUser)
	reviews.DELETE("/:review_uid", d.ReviewHandler.Delete, g.RequireAccess, anyRole)

	tags := v1.Group("/tags", g.RequireAccess, anyRole)
	tags.GET("", d.TagHandler.List)
	tags.POST("", d.TagHandler.Create)
	tags.POST("/book/:book_uid/tags", d.TagHandler.AddToBook)
	tags.PUT("/:tag_uid", d.TagHandler.Update)
	tags.DELETE("/:tag_uid", d.TagHandler.Delete)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	l := logging.FromContext(ctx)

	checks := map[string]string{"database": "ok", "redis": "ok"}
	healthy := true

	if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		healthy = false
	}
	if d.Blocklist != nil {
		if err := d.Blocklist.Ping(ctx); err != nil {
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		l.Warn("readiness_failed", "checks", checks)
		return c.JSON(http.StatusServiceUnavailable, checks)
	}
	return c.JSON(http.StatusOK, checks)
}

// ErrorHandler renders every error as the JSON error body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := transport.Describe(err)
	if status >= 500 {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", err)
	}
}
