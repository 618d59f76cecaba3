package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

func (h *ShopHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	items, err := h.Svc.Cart(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cartDTO(items))
}

func (h *ShopHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	req := transport.AddToCartRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_to_cart_error", "invalid body")
	}
	userID := claimsFrom(c).UserID
	if err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}
	items, err := h.Svc.Cart(ctx, userID)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}
	l.Info("cart_item_added", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cartDTO(items))
}

func (h *ShopHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_cart_error", "invalid body")
	}
	userID := claimsFrom(c).UserID
	if err := h.Svc.UpdateCartQuantity(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return fail(c, l, "update_cart_error", err)
	}
	items, err := h.Svc.Cart(ctx, userID)
	if err != nil {
		return fail(c, l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, cartDTO(items))
}

func (h *ShopHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	productID, err := pathID(c, "product_id")
	if err != nil {
		return badRequest(c, l, "remove_from_cart_error", err.Error())
	}
	if err := h.Svc.RemoveFromCart(ctx, claimsFrom(c).UserID, productID); err != nil {
		return fail(c, l, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from cart"})
}
