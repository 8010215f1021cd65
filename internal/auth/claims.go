package auth

import "time"

// AccessClaims are the claims carried by a v4.local access token. The token is
// encrypted, so clients cannot read them without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Expired reports whether the claims are past their expiration at now.
func (c *AccessClaims) Expired(now time.Time) bool {
	return !c.Expiration.IsZero() && !now.Before(c.Expiration)
}
