package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/logging"
	authmw "github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/service/search"
	"github.com/Skotchmaster/bookly/internal/transport"
	"github.com/Skotchmaster/bookly/internal/util"
)

type BookHandler struct {
	Svc *service.BookService
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return util.ClampPage(page, limit), offset, limit
}

func (h *BookHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_list")

	page, offset, limit := pageParams(c)
	total, books, err := h.Svc.ListBooks(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_books_failed", err)
	}
	if books == nil {
		books = []models.Book{}
	}

	return c.JSON(http.StatusOK, util.Page[models.Book]{
		Data: books,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *BookHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return fail(l, "search_books_failed", &domain.Error{
			Code:       domain.CodeValidation,
			Message:    domain.ErrValidation.Message,
			Resolution: "query parameter q is required",
		})
	}

	page, offset, limit := pageParams(c)
	total, docs, err := h.Svc.SearchBooks(ctx, q, offset, limit)
	if err != nil {
		return fail(l, "search_books_failed", err)
	}
	if docs == nil {
		docs = []search.BookDoc{}
	}

	return c.JSON(http.StatusOK, util.Page[search.BookDoc]{
		Data: docs,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *BookHandler) UserBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_by_user")

	uid, err := paramUID(c, "user_uid")
	if err != nil {
		return fail(l, "user_books_failed", err)
	}
	books, err := h.Svc.UserBooks(ctx, uid)
	if err != nil {
		return fail(l, "user_books_failed", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_get")

	uid, err := paramUID(c, "book_uid")
	if err != nil {
		return fail(l, "get_book_failed", err)
	}
	book, err := h.Svc.GetBook(ctx, uid)
	if err != nil {
		return fail(l, "get_book_failed", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_create")

	var req transport.CreateBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_book_failed", err)
	}

	user := authmw.UserFrom(c)
	if user == nil {
		return fail(l, "create_book_failed", domain.ErrNotAuthenticated)
	}

	book, err := h.Svc.CreateBook(ctx, user.UID, req)
	if err != nil {
		return fail(l, "create_book_failed", err)
	}

	l.Info("book_created", "book_uid", book.UID)
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_update")

	uid, err := paramUID(c, "book_uid")
	if err != nil {
		return fail(l, "update_book_failed", err)
	}

	var req transport.PatchBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_book_failed", err)
	}

	book, err := h.Svc.UpdateBook(ctx, uid, req)
	if err != nil {
		return fail(l, "update_book_failed", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "books_delete")

	uid, err := paramUID(c, "book_uid")
	if err != nil {
		return fail(l, "delete_book_failed", err)
	}
	if err := h.Svc.DeleteBook(ctx, uid); err != nil {
		return fail(l, "delete_book_failed", err)
	}

	l.Info("book_deleted", "book_uid", uid)
	return c.NoContent(http.StatusNoContent)
}
