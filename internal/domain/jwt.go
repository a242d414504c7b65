package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// OnTrakClaims represents custom JWT claims for OnTrak auth
type OnTrakClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles"`
	Timezone string   `json:"timezone,omitempty"`
	jwt.RegisteredClaims
}
