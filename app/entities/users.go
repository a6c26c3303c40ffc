package entities

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
)

// Claims carried by the bearer credential issued by the hotel API.
type Claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type SessionInfo struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at,omitempty"`
}
