package models

import "time"

type User struct {
	ID              uint      `gorm:"primaryKey"`
	Username        string    `gorm:"uniqueIndex;not null"`
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string    `gorm:"not null"`
	IsStaff         bool      `gorm:"default:false"`
	IsSuperuser     bool      `gorm:"default:false"`
	IsSeller        bool      `gorm:"default:false"`
	IsDeliveryAgent bool      `gorm:"default:false"`
	DateJoined      time.Time `gorm:"autoCreateTime"`
}

type SellerProfile struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	StoreName string `gorm:"not null"`
}

type AgentProfile struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"uniqueIndex;not null"`
	Phone  string `gorm:"not null"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

// SubCategory names are unique within their category only.
type SubCategory struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"uniqueIndex:idx_subcategory_name;not null"`
	Name       string `gorm:"uniqueIndex:idx_subcategory_name;not null"`
}

type Product struct {
	ID                 uint    `gorm:"primaryKey"`
	Name               string  `gorm:"index;not null"`
	CategoryID         uint    `gorm:"index"`
	Category           Category
	SubCategoryID      *uint `gorm:"index"`
	SubCategory        *SubCategory
	Price              float64 `gorm:"not null;check:price>=0"`
	DiscountPercentage float64 `gorm:"default:0"`
	Stock              int     `gorm:"default:0;check:stock>=0"`
	Description        string
	Image              string
	SellerID           *uint `gorm:"index"`
	Seller             *User
	CreatedAt          time.Time
}

// DiscountedPrice is rounded to two decimals.
func (p Product) DiscountedPrice() float64 {
	v := p.Price * (1 - p.DiscountPercentage/100)
	return float64(int64(v*100+0.5)) / 100
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null"`
	Product   Product
	Quantity  int `gorm:"default:1;check:quantity>0"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

const (
	StatusPending        = "Pending"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

type Order struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"index;not null"`
	User           User
	Items          []OrderItem
	TotalPrice     float64
	Status         string `gorm:"default:Pending"`
	PaymentMethod  string
	IsPaid         bool
	FullName       string
	Phone          string
	Email          string
	Address        string
	City           string
	State          string
	Pincode        string
	IdempotencyKey *string `gorm:"uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index"`
	Product   Product
	Price     float64
	Quantity  int
}

type WishlistItem struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_wish_user_product;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_wish_user_product;not null"`
	Product   Product
	AddedAt   time.Time `gorm:"autoCreateTime"`
}

type Address struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"index;not null"`
	FullName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

type DeliveryAssignment struct {
	ID          uint `gorm:"primaryKey"`
	OrderID     uint `gorm:"uniqueIndex;not null"`
	Order       Order
	AgentID     uint `gorm:"index;not null"`
	Status      string
	AssignedAt  time.Time `gorm:"autoCreateTime"`
	LastUpdated time.Time `gorm:"autoUpdateTime"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &SellerProfile{}, &AgentProfile{}, &Category{}, &SubCategory{}, &Product{},
		&CartItem{}, &Order{}, &OrderItem{}, &WishlistItem{}, &Address{},
		&DeliveryAssignment{},
	}
}
