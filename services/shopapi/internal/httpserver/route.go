package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

type Deps struct {
	Shop         *ShopHTTP
	Svc          *service.ShopService
	Logger       *slog.Logger
	LoginLimiter *LoginLimiter
	// Ready reports whether dependencies are reachable.
	Ready func() error
}

// New builds the echo instance with middleware and every route.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), RequestLogger(d.Logger), middleware.CORS())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	h := d.Shop
	limiter := d.LoginLimiter
	if limiter == nil {
		limiter = NewLoginLimiter(0)
	}

	auth := e.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login(service.LoginAny), limiter.Middleware)
	auth.POST("/seller-login", h.Login(service.LoginSeller), limiter.Middleware)
	auth.POST("/delivery-login", h.Login(service.LoginDelivery), limiter.Middleware)

	e.GET("/categories", h.Categories)
	e.GET("/products", h.Products)
	e.GET("/product/:id", h.Product)
	e.GET("/products/category/:id", h.CategoryProducts)
	e.GET("/products/category/:id/grouped", h.GroupedProducts)
	e.GET("/products/subcategory/:name", h.SubCategoryProducts)

	customer := RequireAuth(d.Svc, nil, "")

	cart := e.Group("/cart", customer)
	cart.GET("", h.GetCart)
	cart.POST("/add", h.AddToCart)
	cart.POST("/update", h.UpdateCart)
	cart.DELETE("/remove/:product_id", h.RemoveFromCart)

	e.POST("/order/place", h.PlaceOrder, customer)
	e.GET("/orders", h.Orders, customer)
	e.GET("/order/:id", h.Order, customer)
	e.GET("/profile", h.Profile, customer)

	wish := e.Group("/wishlist", customer)
	wish.GET("", h.Wishlist)
	wish.POST("/add", h.AddToWishlist)
	wish.DELETE("/remove/:product_id", h.RemoveFromWishlist)

	addr := e.Group("/addresses", customer)
	addr.GET("", h.Addresses)
	addr.POST("/add", h.AddAddress)

	staff := RequireAuth(d.Svc, Staff, "Admin access required")
	e.GET("/ordersall", h.AllOrders, staff)

	admin := e.Group("/admin", staff)
	admin.GET("/users", h.AdminUsers)
	admin.POST("/users/:id/promote/seller", h.PromoteSeller)
	admin.POST("/users/:id/promote/agent", h.PromoteAgent)
	admin.DELETE("/users/:id/delete", h.DeleteUser)
	admin.GET("/products", h.AdminProducts)
	admin.DELETE("/products/:id/delete", h.AdminDeleteProduct)

	seller := e.Group("/seller", RequireAuth(d.Svc, Seller, "Seller access required"))
	seller.GET("/products", h.SellerProducts)
	seller.POST("/add-product", h.SellerAddProduct)
	seller.DELETE("/products/:id", h.SellerDeleteProduct)
	seller.GET("/orders", h.SellerOrders)
	seller.GET("/profile", h.SellerProfile)

	agent := e.Group("/delivery", RequireAuth(d.Svc, Delivery, "Delivery agent access required"))
	agent.GET("/orders", h.DeliveryOrders)
	agent.POST("/order/:id/update", h.DeliveryUpdateStatus)
}
