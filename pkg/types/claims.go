package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the token payload issued by the platform's auth provider.
type Claims struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user id, falling back to the standard subject claim.
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// DisplayName is the name recorded as the author of admin actions.
func (c *Claims) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Identity()
}

// Admin reports whether the token grants admin access.
func (c *Claims) Admin() bool {
	return c.IsAdmin || c.Role == "admin"
}
