package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type ReviewHandler struct {
	Svc *service.ReviewService
}

func (h *ReviewHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews_list")

	reviews, err := h.Svc.ListReviews(ctx)
	if err != nil {
		return fail(l, "list_reviews_failed", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews_get")

	uid, err := paramUID(c, "review_uid")
	if err != nil {
		return fail(l, "get_review_failed", err)
	}
	review, err := h.Svc.GetReview(ctx, uid)
	if err != nil {
		return fail(l, "get_review_failed", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews_add")

	bookUID, err := paramUID(c, "book_uid")
	if err != nil {
		return fail(l, "add_review_failed", err)
	}

	var req transport.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "add_review_failed", err)
	}

	user := authmw.UserFrom(c)
	if user == nil {
		return fail(l, "add_review_failed", domain.ErrNotAuthenticated)
	}

	review, err := h.Svc.AddReview(ctx, user.Email, bookUID, req)
	if err != nil {
		return fail(l, "add_review_failed", err)
	}

	l.Info("review_added", "review_uid", review.UID, "book_uid", bookUID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reviews_delete")

	uid, err := paramUID(c, "review_uid")
	if err != nil {
		return fail(l, "delete_review_failed", err)
	}

	claims := authmw.ClaimsFrom(c)
	if claims == nil {
		return fail(l, "delete_review_failed", domain.ErrNotAuthenticated)
	}
	if err := h.Svc.DeleteReview(ctx, uid, claims.User.Email); err != nil {
		return fail(l, "delete_review_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}
