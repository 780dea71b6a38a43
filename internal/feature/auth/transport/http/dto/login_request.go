// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// LoginReq represents the request body for the /auth/login endpoint.
// Domain validation (character classes, complexity) happens in the value
// objects; binding only rejects obviously off-size input.
type LoginReq struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}
