package models

import (
	"time"
)

// User represents a customer or admin account
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	Phone        string    `json:"phone" db:"phone"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Joined data (populated when needed)
	Addresses []Address `json:"addresses,omitempty"`
}

// Address represents a delivery address owned by a user
type Address struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"-" db:"user_id"`
	AddressType string `json:"addressType" db:"address_type"`
	AddressName string `json:"addressName" db:"address_name"`
	Address     string `json:"address" db:"address"`
	City        string `json:"city" db:"city"`
	PostalCode  string `json:"postalCode" db:"postal_code"`
	Country     string `json:"country" db:"country"`
	Phone       string `json:"phone" db:"phone"`
	IsDefault   bool   `json:"isDefault" db:"is_default"`
}

// UserRegistration represents user registration data
type UserRegistration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UserLogin represents user login data
type UserLogin struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=128"`
}

// UserProfileUpdate represents a partial profile update.
// A nil field means "leave unchanged"; a present field is applied even
// when it is empty.
type UserProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

// AdminUserUpdate represents an admin update of another user's account
type AdminUserUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	IsAdmin *bool   `json:"isAdmin,omitempty"`
}

// AddressCreate represents data for adding a new address
type AddressCreate struct {
	AddressType string `json:"addressType" validate:"max=30"`
	AddressName string `json:"addressName" validate:"max=100"`
	Address     string `json:"address" validate:"required,max=300"`
	City        string `json:"city" validate:"required,max=100"`
	PostalCode  string `json:"postalCode" validate:"max=20"`
	Country     string `json:"country" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=30"`
	IsDefault   bool   `json:"isDefault"`
}

// AddressUpdate represents a partial address update
type AddressUpdate struct {
	AddressType *string `json:"addressType,omitempty"`
	AddressName *string `json:"addressName,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
	Country     *string `json:"country,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	IsDefault   *bool   `json:"isDefault,omitempty"`
}

// AuthResponse is returned by register, login and profile-update endpoints
type AuthResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Phone   string `json:"phone,omitempty"`
	Token   string `json:"token,omitempty"`
}

// WishlistItem represents a wishlist entry joined with its product
type WishlistItem struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`

	Product *Product `json:"product,omitempty"`
}
