package httpserver

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

func (h *ShopHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(c, l, "categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *ShopHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	var categoryID uint64
	if v := c.QueryParam("category"); v != "" {
		var err error
		if categoryID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return badRequest(c, l, "products_error", "category must be a number")
		}
	}
	ps, err := h.Svc.Products(ctx, uint(categoryID), c.QueryParam("q"))
	if err != nil {
		return fail(c, l, "products_error", err)
	}
	return c.JSON(http.StatusOK, productsDTO(ps))
}

func (h *ShopHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "product_error", err.Error())
	}
	p, err := h.Svc.Product(ctx, id)
	if err != nil {
		return fail(c, l, "product_error", err)
	}
	return c.JSON(http.StatusOK, productDTO(*p))
}

func (h *ShopHTTP) CategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.category_products")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "category_products_error", err.Error())
	}
	ps, err := h.Svc.Products(ctx, id, "")
	if err != nil {
		return fail(c, l, "category_products_error", err)
	}
	return c.JSON(http.StatusOK, productsDTO(ps))
}

func (h *ShopHTTP) SubCategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.subcategory_products")

	name := c.Param("name")
	if v, err := url.PathUnescape(name); err == nil {
		name = v
	}
	sc, ps, err := h.Svc.ProductsBySubCategory(ctx, name)
	if err != nil {
		return fail(c, l, "subcategory_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.SubCategoryProducts{SubCategory: sc.Name, Products: productsDTO(ps)})
}

func (h *ShopHTTP) GroupedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.grouped_products")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "grouped_products_error", err.Error())
	}
	groups, err := h.Svc.ProductsGrouped(ctx, id)
	if err != nil {
		return fail(c, l, "grouped_products_error", err)
	}
	out := make(map[string][]transport.Product, len(groups))
	for name, ps := range groups {
		out[name] = productsDTO(ps)
	}
	return c.JSON(http.StatusOK, out)
}
