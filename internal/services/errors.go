package services

import "errors"

// Business-logic rejections surfaced to the API boundary. Handlers map
// these with errors.Is; anything else is treated as an internal error.
var (
	// ErrEmptyOrder is returned when an order is created without items
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInsufficientStock is returned when a line item asks for more
	// units than the product has in stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrOrderNotFound is returned when the referenced order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductNotFound is returned when the referenced product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound is returned when the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrAddressNotFound is returned when the referenced address does not exist
	ErrAddressNotFound = errors.New("address not found")

	// ErrNotAuthorized is returned when the caller is neither the owner
	// of the resource nor an admin
	ErrNotAuthorized = errors.New("not authorized")

	// ErrOrderNotCancellable is returned when cancellation is attempted
	// on a delivered or shipped order
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")

	// ErrInvalidStatus is returned when an admin status update names an
	// unknown lifecycle state
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidCategory is returned when a product names an unknown
	// catalog category
	ErrInvalidCategory = errors.New("invalid product category")

	// ErrAlreadyReviewed is returned when a user reviews the same
	// product twice
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")

	// ErrAlreadyInWishlist is returned on duplicate wishlist additions
	ErrAlreadyInWishlist = errors.New("product already in wishlist")

	// ErrEmailTaken is returned when registering with an email that is
	// already in use
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSignatureMismatch is returned when a webhook payload does not
	// verify against the signature header
	ErrSignatureMismatch = errors.New("webhook signature verification failed")
)
