package dto

import "time"

// LoginResponse represents the response for a successful login or code exchange.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
