package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

func (h *ShopHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	u, err := h.Svc.Profile(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "profile_error", err)
	}
	return c.JSON(http.StatusOK, profileDTO(*u))
}

func (h *ShopHTTP) Wishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	items, err := h.Svc.Wishlist(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "wishlist_error", err)
	}
	return c.JSON(http.StatusOK, wishlistDTO(items))
}

func (h *ShopHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_to_wishlist_error", "invalid body")
	}
	added, err := h.Svc.AddToWishlist(ctx, claimsFrom(c).UserID, req.ProductID)
	if err != nil {
		return fail(c, l, "add_to_wishlist_error", err)
	}
	if !added {
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product already in wishlist"})
	}
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Product added to wishlist"})
}

func (h *ShopHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	productID, err := pathID(c, "product_id")
	if err != nil {
		return badRequest(c, l, "remove_from_wishlist_error", err.Error())
	}
	if err := h.Svc.RemoveFromWishlist(ctx, claimsFrom(c).UserID, productID); err != nil {
		return fail(c, l, "remove_from_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product removed from wishlist"})
}

func (h *ShopHTTP) Addresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.list")

	rows, err := h.Svc.Addresses(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "addresses_error", err)
	}
	out := make([]transport.Address, 0, len(rows))
	for _, a := range rows {
		out = append(out, addressDTO(a))
	}
	return c.JSON(http.StatusOK, map[string]any{"addresses": out})
}

func (h *ShopHTTP) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "addresses.add")

	var req transport.Address
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_address_error", "invalid body")
	}
	a := &models.Address{
		UserID:     claimsFrom(c).UserID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := h.Svc.AddAddress(ctx, a); err != nil {
		return fail(c, l, "add_address_error", err)
	}
	return c.JSON(http.StatusCreated, addressDTO(*a))
}
