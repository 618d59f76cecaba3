// Package transport holds the JSON shapes exchanged with the shop API.
// Money is a plain number in the platform's base currency.
package transport

import "time"

type LoginResponse struct {
	Access          string `json:"access"`
	Refresh         string `json:"refresh"`
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	IsStaff         bool   `json:"is_staff"`
	IsSeller        bool   `json:"is_seller"`
	IsDeliveryAgent bool   `json:"is_delivery_agent"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Category           uint    `json:"category"`
	CategoryName       string  `json:"category_name,omitempty"`
	SubCategory        *uint   `json:"subcategory"`
	SubCategoryName    string  `json:"subcategory_name,omitempty"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountedPrice    float64 `json:"discounted_price"`
	Stock              int     `json:"stock"`
	Description        string  `json:"description"`
	Image              string  `json:"image"`
	Seller             *uint   `json:"seller"`
	SellerName         string  `json:"seller_name,omitempty"`
}

type CartItem struct {
	ID              uint    `json:"id"`
	Product         Product `json:"product"`
	DiscountedPrice float64 `json:"discounted_price"`
	Quantity        int     `json:"quantity"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type OrderItem struct {
	ID          uint    `json:"id"`
	Product     uint    `json:"product"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

type Order struct {
	ID            uint        `json:"id"`
	User          uint        `json:"user"`
	Items         []OrderItem `json:"items"`
	TotalPrice    float64     `json:"total_price"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	IsPaid        bool        `json:"is_paid"`
	CreatedAt     time.Time   `json:"created_at"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type PlaceOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
}

type WishlistItem struct {
	ID      uint      `json:"id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

type WishlistRequest struct {
	ProductID uint `json:"product_id"`
}

type Address struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type User struct {
	ID              uint      `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsStaff         bool      `json:"is_staff"`
	IsSuperuser     bool      `json:"is_superuser"`
	IsSeller        bool      `json:"is_seller"`
	IsDeliveryAgent bool      `json:"is_delivery_agent"`
	DateJoined      time.Time `json:"date_joined"`
}

// Profile is the signed-in user's own record. StoreName is set for
// sellers only.
type Profile struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
	StoreName  string    `json:"store_name,omitempty"`
}

type AdminOrder struct {
	ID            uint      `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type SubCategoryProducts struct {
	SubCategory string    `json:"subcategory"`
	Products    []Product `json:"products"`
}

type PromoteSellerRequest struct {
	StoreName string `json:"store_name"`
}

type PromoteAgentRequest struct {
	Phone string `json:"phone"`
}

type NewProductRequest struct {
	Name               string  `json:"name"`
	CategoryID         uint    `json:"category_id"`
	SubCategory        string  `json:"subcategory,omitempty"`
	Price              float64 `json:"price"`
	Stock              int     `json:"stock"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Description        string  `json:"description"`
	Image              string  `json:"image,omitempty"`
}

type SellerOrder struct {
	OrderID      uint      `json:"order_id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeliveryOrder struct {
	ID           uint      `json:"id"`
	OrderID      uint      `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalPrice   float64   `json:"total_price"`
	Status       string    `json:"status"`
	AssignedAt   time.Time `json:"assigned_at"`
	LastUpdated  time.Time `json:"last_updated"`
	Address      *Address  `json:"user_address,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
