package entity

import "time"

// User is the credential-store record backing login. Only the identifying
// fields and the password digest live here; profile management is a
// different service's concern.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the login name, unique across all users.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// PasswordHash is the bcrypt digest of the user's password.
	// Plaintext never reaches this field.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
