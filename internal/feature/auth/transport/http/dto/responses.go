package dto

import "time"

// TokenBundleRes is the response for a successful login or refresh.
type TokenBundleRes struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	RefreshExpiresIn int64     `json:"refresh_expires_in"`
	UserID           uint      `json:"user_id"`
	Username         string    `json:"username"`
	SessionID        string    `json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// SessionInfoRes is one session in a session listing.
type SessionInfoRes struct {
	SessionID             string    `json:"session_id"`
	UserID                uint      `json:"user_id"`
	Username              string    `json:"username"`
	ClientIP              string    `json:"client_ip"`
	UserAgent             string    `json:"user_agent"`
	Status                string    `json:"status"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	LastActivityAt        time.Time `json:"last_activity_at"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// SessionPageRes is one page of a user's sessions.
type SessionPageRes struct {
	Sessions []SessionInfoRes `json:"sessions"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
}

// ValidateRes carries the user ID extracted from a valid access token.
type ValidateRes struct {
	UserID uint `json:"user_id"`
}

// RevokeAllRes reports how many tokens a bulk revocation denied.
type RevokeAllRes struct {
	TokensDenied int `json:"tokens_denied"`
}

// ErrorRes is the uniform error payload.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is the uniform success payload for bodyless operations.
type MessageRes struct {
	Message string `json:"message"`
}
