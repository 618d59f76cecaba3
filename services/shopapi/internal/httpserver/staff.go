package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

func (h *ShopHTTP) AdminUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.users")

	users, err := h.Svc.Users(ctx)
	if err != nil {
		return fail(c, l, "admin_users_error", err)
	}
	out := make([]transport.User, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO(u))
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out})
}

func (h *ShopHTTP) AdminProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.products")

	ps, err := h.Svc.Products(ctx, 0, "")
	if err != nil {
		return fail(c, l, "admin_products_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": productsDTO(ps)})
}

func (h *ShopHTTP) AllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	orders, err := h.Svc.AllOrders(ctx)
	if err != nil {
		return fail(c, l, "admin_orders_error", err)
	}
	out := make([]transport.AdminOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, adminOrderDTO(o))
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": out})
}

func (h *ShopHTTP) PromoteSeller(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.promote_seller")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "promote_seller_error", err.Error())
	}
	var req transport.PromoteSellerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "promote_seller_error", "invalid body")
	}
	if err := h.Svc.PromoteSeller(ctx, id, req.StoreName); err != nil {
		return fail(c, l, "promote_seller_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User promoted to seller"})
}

func (h *ShopHTTP) PromoteAgent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.promote_agent")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "promote_agent_error", err.Error())
	}
	var req transport.PromoteAgentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "promote_agent_error", "invalid body")
	}
	if err := h.Svc.PromoteAgent(ctx, id, req.Phone); err != nil {
		return fail(c, l, "promote_agent_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User promoted to delivery agent"})
}

func (h *ShopHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_user")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_user_error", err.Error())
	}
	if err := h.Svc.DeleteUser(ctx, claimsFrom(c).UserID, id); err != nil {
		return fail(c, l, "delete_user_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User deleted"})
}

func (h *ShopHTTP) AdminDeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_product_error", err.Error())
	}
	if err := h.Svc.DeleteProduct(ctx, id, 0); err != nil {
		return fail(c, l, "delete_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted"})
}

func (h *ShopHTTP) SellerProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.products")

	ps, err := h.Svc.SellerProducts(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "seller_products_error", err)
	}
	return c.JSON(http.StatusOK, productsDTO(ps))
}

func (h *ShopHTTP) SellerAddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.add_product")

	var req transport.NewProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_product_error", "invalid body")
	}
	p, err := h.Svc.AddProduct(ctx, claimsFrom(c).UserID, service.NewProduct{
		Name:               req.Name,
		CategoryID:         req.CategoryID,
		SubCategory:        req.SubCategory,
		Price:              req.Price,
		Stock:              req.Stock,
		DiscountPercentage: req.DiscountPercentage,
		Description:        req.Description,
		Image:              req.Image,
	})
	if err != nil {
		return fail(c, l, "add_product_error", err)
	}
	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, productDTO(*p))
}

func (h *ShopHTTP) SellerProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.profile")

	u, sp, err := h.Svc.SellerProfile(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "seller_profile_error", err)
	}
	out := profileDTO(*u)
	out.StoreName = sp.StoreName
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHTTP) SellerDeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.delete_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_product_error", err.Error())
	}
	if err := h.Svc.DeleteProduct(ctx, id, claimsFrom(c).UserID); err != nil {
		return fail(c, l, "delete_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted"})
}

func (h *ShopHTTP) SellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.orders")

	lines, err := h.Svc.SellerOrders(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "seller_orders_error", err)
	}
	out := make([]transport.SellerOrder, 0, len(lines))
	for _, ln := range lines {
		out = append(out, sellerOrderDTO(ln))
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": out})
}

func (h *ShopHTTP) DeliveryOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.orders")

	rows, err := h.Svc.AgentOrders(ctx, claimsFrom(c).UserID)
	if err != nil {
		return fail(c, l, "delivery_orders_error", err)
	}
	out := make([]transport.DeliveryOrder, 0, len(rows))
	for _, a := range rows {
		out = append(out, deliveryOrderDTO(a))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHTTP) DeliveryUpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.update_status")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "delivery_status_error", err.Error())
	}
	var req transport.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "delivery_status_error", "invalid body")
	}
	if err := h.Svc.UpdateDeliveryStatus(ctx, claimsFrom(c).UserID, id, req.Status); err != nil {
		return fail(c, l, "delivery_status_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Status updated"})
}
