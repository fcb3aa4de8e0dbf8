package handlers

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/domain"
	"github.com/Skotchmaster/bookly/internal/transport"
)

// fail logs err under event at a level matching its status and returns it
// for the router's error handler to render.
func fail(l *slog.Logger, event string, err error) error {
	status := transport.HTTPStatus(err)
	if status >= 500 {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return err
}

func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return c.Validate(dst)
}

func paramUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, &domain.Error{
			Code:       domain.CodeValidation,
			Message:    domain.ErrValidation.Message,
			Resolution: name + " is not a uuid",
		}
	}
	return id, nil
}
