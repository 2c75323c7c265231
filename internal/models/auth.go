package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a provider-issued access token. The subject
// is the identity id, which doubles as the profile primary key.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
