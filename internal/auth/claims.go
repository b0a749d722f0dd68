package auth

import "time"

// DeviceClaims are the claims carried by a device token. v4.local tokens are
// encrypted, so clients cannot read them.
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"device_name"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
