package tokens

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	IsStaff         bool   `json:"is_staff"`
	IsSeller        bool   `json:"is_seller"`
	IsDeliveryAgent bool   `json:"is_delivery_agent"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
