package httpserver

import (
	"strings"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/service"
)

func productDTO(p models.Product) transport.Product {
	out := transport.Product{
		ID:                 p.ID,
		Name:               p.Name,
		Category:           p.CategoryID,
		CategoryName:       p.Category.Name,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		DiscountedPrice:    p.DiscountedPrice(),
		Stock:              p.Stock,
		Description:        p.Description,
		Image:              p.Image,
		Seller:             p.SellerID,
	}
	if p.Seller != nil {
		out.SellerName = p.Seller.Username
	}
	if p.SubCategory != nil {
		out.SubCategory = &p.SubCategory.ID
		out.SubCategoryName = p.SubCategory.Name
	}
	return out
}

func productsDTO(ps []models.Product) []transport.Product {
	out := make([]transport.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, productDTO(p))
	}
	return out
}

func cartDTO(items []models.CartItem) transport.Cart {
	out := transport.Cart{Items: make([]transport.CartItem, 0, len(items))}
	var total float64
	for _, it := range items {
		price := it.Product.DiscountedPrice()
		out.Items = append(out.Items, transport.CartItem{
			ID:              it.ID,
			Product:         productDTO(it.Product),
			DiscountedPrice: price,
			Quantity:        it.Quantity,
		})
		total += price * float64(it.Quantity)
	}
	out.TotalPrice = round2(total)
	return out
}

func orderDTO(o models.Order) transport.Order {
	out := transport.Order{
		ID:            o.ID,
		User:          o.UserID,
		Items:         make([]transport.OrderItem, 0, len(o.Items)),
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		IsPaid:        o.IsPaid,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, transport.OrderItem{
			ID:          it.ID,
			Product:     it.ProductID,
			ProductName: it.Product.Name,
			Price:       it.Price,
			Quantity:    it.Quantity,
			TotalPrice:  round2(it.Price * float64(it.Quantity)),
		})
	}
	return out
}

func wishlistDTO(items []models.WishlistItem) []transport.WishlistItem {
	out := make([]transport.WishlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, transport.WishlistItem{ID: it.ID, Product: productDTO(it.Product), AddedAt: it.AddedAt})
	}
	return out
}

func addressDTO(a models.Address) transport.Address {
	return transport.Address{
		ID:         a.ID,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

func userDTO(u models.User) transport.User {
	return transport.User{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		IsStaff:         u.IsStaff,
		IsSuperuser:     u.IsSuperuser,
		IsSeller:        u.IsSeller,
		IsDeliveryAgent: u.IsDeliveryAgent,
		DateJoined:      u.DateJoined,
	}
}

func profileDTO(u models.User) transport.Profile {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return transport.Profile{ID: u.ID, Username: u.Username, Name: name, Email: u.Email, DateJoined: u.DateJoined}
}

// adminOrderDTO prefers the checkout contact details over the account.
func adminOrderDTO(o models.Order) transport.AdminOrder {
	out := transport.AdminOrder{
		ID:            o.ID,
		CustomerName:  o.FullName,
		CustomerEmail: o.Email,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
	if out.CustomerName == "" {
		out.CustomerName = o.User.Username
	}
	if out.CustomerEmail == "" {
		out.CustomerEmail = o.User.Email
	}
	return out
}

func sellerOrderDTO(l service.SellerOrderLine) transport.SellerOrder {
	return transport.SellerOrder{
		OrderID:      l.Item.OrderID,
		ProductID:    l.Item.ProductID,
		ProductName:  l.Item.Product.Name,
		Quantity:     l.Item.Quantity,
		Price:        l.Item.Price,
		CustomerName: l.Order.User.Username,
		Status:       l.Order.Status,
		CreatedAt:    l.Order.CreatedAt,
	}
}

func deliveryOrderDTO(a service.Assignment) transport.DeliveryOrder {
	out := transport.DeliveryOrder{
		ID:           a.ID,
		OrderID:      a.OrderID,
		CustomerName: a.Order.FullName,
		TotalPrice:   a.Order.TotalPrice,
		Status:       a.Status,
		AssignedAt:   a.AssignedAt,
		LastUpdated:  a.LastUpdated,
	}
	if out.CustomerName == "" {
		out.CustomerName = a.Order.User.Username
	}
	if a.Address != nil {
		addr := addressDTO(*a.Address)
		out.Address = &addr
	}
	return out
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
