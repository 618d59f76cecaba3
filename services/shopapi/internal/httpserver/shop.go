package httpserver

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

type ShopHTTP struct {
	Svc *service.ShopService
}

var errBadID = errors.New("invalid id")

func pathID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errBadID
	}
	return uint(v), nil
}
