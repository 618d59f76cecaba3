package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

const headerIdempotencyKey = "Idempotency-Key"

// PlaceOrder answers 201 for a new order and 200 when the
// Idempotency-Key matched an order already placed.
func (h *ShopHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "place_order_error", "invalid body")
	}
	sh := req.ShippingAddress
	o, created, err := h.Svc.PlaceOrder(ctx, claimsFrom(c).UserID, service.PlaceOrder{
		Shipping: service.Shipping{
			FullName: sh.FullName,
			Phone:    sh.Phone,
			Email:    sh.Email,
			Address:  sh.Address,
			City:     sh.City,
			State:    sh.State,
			Pincode:  sh.Pincode,
		},
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return fail(c, l, "place_order_error", err)
	}
	if !created {
		l.Info("order_replayed", "order_id", o.ID)
		return c.JSON(http.StatusOK, orderDTO(*o))
	}
	l.Info("order_placed", "order_id", o.ID, "total_price", o.TotalPrice)
	return c.JSON(http.StatusCreated, orderDTO(*o))
}

func (h *ShopHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	orders, err := h.Svc.Orders(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "orders_error", err)
	}
	out := make([]transport.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderDTO(o))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHTTP) Order(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.detail")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "order_error", err.Error())
	}
	o, err := h.Svc.Order(ctx, claimsFrom(c).UserID, id)
	if err != nil {
		return fail(c, l, "order_error", err)
	}
	return c.JSON(http.StatusOK, orderDTO(*o))
}
