package session

import "fmt"

type Role string

const (
	Customer Role = "customer"
	Admin    Role = "admin"
	Seller   Role = "seller"
	Delivery Role = "delivery"
)

type RoleConfig struct {
	LoginPath  string
	LoginRoute string
	TokenKey   string
	// RequireStaff rejects logins whose response lacks is_staff.
	RequireStaff bool
}

var roles = map[Role]RoleConfig{
	Customer: {LoginPath: "/auth/login/", LoginRoute: "/login", TokenKey: KeyAccessToken},
	Admin:    {LoginPath: "/auth/login/", LoginRoute: "/admin/login", TokenKey: KeyToken, RequireStaff: true},
	Seller:   {LoginPath: "/auth/seller-login/", LoginRoute: "/seller/login", TokenKey: KeyToken},
	Delivery: {LoginPath: "/auth/delivery-login/", LoginRoute: "/delivery/login", TokenKey: KeyToken},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Config() RoleConfig { return roles[r] }

func (r Role) String() string { return string(r) }
