package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *ShopHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "register_error", "invalid body")
	}
	u, err := h.Svc.Register(ctx, service.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return fail(c, l, "register_error", err)
	}
	l.Info("user_registered", "user_id", u.ID)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "User registered successfully"})
}

// Login serves the three login endpoints; kind picks the account flag
// the endpoint requires.
func (h *ShopHTTP) Login(kind service.LoginKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "auth.login")

		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, l, "login_error", "invalid body")
		}
		res, err := h.Svc.Login(ctx, req.Username, req.Password, kind)
		if err != nil {
			return fail(c, l, "login_error", err)
		}
		u := res.User
		l.Info("user_logged_in", "user_id", u.ID)
		return c.JSON(http.StatusOK, transport.LoginResponse{
			Access:          res.Access,
			Refresh:         res.Refresh,
			UserID:          u.ID,
			Username:        u.Username,
			IsStaff:         u.IsStaff,
			IsSeller:        u.IsSeller,
			IsDeliveryAgent: u.IsDeliveryAgent,
		})
	}
}
