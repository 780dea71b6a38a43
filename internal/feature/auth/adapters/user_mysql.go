package adapters

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// userMySQL is a MySQL-backed implementation of the CredentialStore
// interface. Passwords are stored as bcrypt digests with a configurable
// work factor.
type userMySQL struct {
	db   *gorm.DB
	cost int
}

// Compile-time check to ensure userMySQL implements CredentialStore.
var _ usecase.CredentialStore = (*userMySQL)(nil)

// NewUserMySQL creates a credential store with the given bcrypt cost.
func NewUserMySQL(db *gorm.DB, cost int) *userMySQL {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &userMySQL{db: db, cost: cost}
}

// dummyHash keeps bcrypt comparison time constant when the user does not
// exist, mitigating username enumeration via timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Verify checks the username/password pair and returns the user ID.
// bcrypt comparison always runs, whether or not the user exists.
func (r *userMySQL) Verify(ctx context.Context, username, password string) (uint, error) {
	var u entity.User
	findErr := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return 0, findErr
	}

	hash := dummyHash
	if findErr == nil {
		hash = u.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	if findErr != nil || compareErr != nil {
		return 0, domain.ErrInvalidCredentials
	}
	return u.ID, nil
}

// Create registers a user with a hashed password. Used for seeding and
// tests; user administration proper lives in another service.
func (r *userMySQL) Create(ctx context.Context, username, password string) (uint, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	u := entity.User{Username: username, PasswordHash: string(hashed)}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}
