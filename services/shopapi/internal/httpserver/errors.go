package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// fail maps a service error to its status and writes {"error": msg}.
// Unknown errors become a 500 without leaking details.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			l.Warn(event, "status", m.status, "error", err)
			return c.JSON(m.status, transport.ErrorResponse{Error: publicMessage(err, m.err)})
		}
	}
	l.Error(event, "status", http.StatusInternalServerError, "error", err)
	return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "internal server error"})
}

func badRequest(c echo.Context, l *slog.Logger, event, msg string) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", msg)
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: msg})
}

func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
