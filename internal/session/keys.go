package session

const (
	KeyAccessToken     = "access_token"
	KeyToken           = "token"
	KeyRefreshToken    = "refresh_token"
	KeyUsername        = "username"
	KeyUserID          = "user_id"
	KeyIsStaff         = "is_staff"
	KeyIsSeller        = "is_seller"
	KeyIsDeliveryAgent = "is_delivery_agent"

	// Handoff keys carry cart and address data from cart to checkout.
	KeyCart            = "cart"
	KeyDeliveryAddress = "delivery_address"
)

var allKeys = []string{
	KeyAccessToken, KeyToken, KeyRefreshToken, KeyUsername, KeyUserID,
	KeyIsStaff, KeyIsSeller, KeyIsDeliveryAgent, KeyCart, KeyDeliveryAddress,
}
