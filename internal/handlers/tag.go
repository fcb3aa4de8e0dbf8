package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type TagHandler struct {
	Svc *service.TagService
}

func (h *TagHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags_list")

	tags, err := h.Svc.ListTags(ctx)
	if err != nil {
		return fail(l, "list_tags_failed", err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags_create")

	var req transport.TagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_tag_failed", err)
	}

	tag, err := h.Svc.CreateTag(ctx, req.Name)
	if err != nil {
		return fail(l, "create_tag_failed", err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) AddToBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags_add_to_book")

	bookUID, err := paramUID(c, "book_uid")
	if err != nil {
		return fail(l, "add_tags_failed", err)
	}

	var req transport.AddTagsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "add_tags_failed", err)
	}

	book, err := h.Svc.AddTagsToBook(ctx, bookUID, req)
	if err != nil {
		return fail(l, "add_tags_failed", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *TagHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags_update")

	uid, err := paramUID(c, "tag_uid")
	if err != nil {
		return fail(l, "update_tag_failed", err)
	}

	var req transport.TagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_tag_failed", err)
	}

	tag, err := h.Svc.UpdateTag(ctx, uid, req.Name)
	if err != nil {
		return fail(l, "update_tag_failed", err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tags_delete")

	uid, err := paramUID(c, "tag_uid")
	if err != nil {
		return fail(l, "delete_tag_failed", err)
	}
	if err := h.Svc.DeleteTag(ctx, uid); err != nil {
		return fail(l, "delete_tag_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}
