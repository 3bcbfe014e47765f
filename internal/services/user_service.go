package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/utils"
)

// UserService handles account-related business logic
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser registers a new user account
func (s *UserService) CreateUser(registration *models.UserRegistration) (*models.User, error) {
	if err := utils.ValidateStruct(registration); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	registration.Email = utils.NormalizeEmail(registration.Email)

	// Check if the email is already taken
	var existingID string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", registration.Email).Scan(&existingID)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(registration.Name),
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, is_admin, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin,
		user.Phone, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies a login and returns the matching user
func (s *UserService) Authenticate(login *models.UserLogin) (*models.User, error) {
	if err := utils.ValidateStruct(login); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	user, err := s.getUserByEmail(utils.NormalizeEmail(login.Email))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, name, email, password_hash, is_admin, phone, created_at, updated_at
		FROM users WHERE id = ?
	`, userID))
}

func (s *UserService) getUserByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, name, email, password_hash, is_admin, phone, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

func (s *UserService) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update. Only fields present in
// the request are changed.
func (s *UserService) UpdateProfile(userID string, update *models.UserProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = utils.NormalizeEmail(*update.Email)
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Password != nil && *update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	user.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE users SET name = ?, email = ?, phone = ?, password_hash = ?, updated_at = ?
		WHERE id = ?
	`, user.Name, user.Email, user.Phone, user.PasswordHash, user.UpdatedAt, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// GetAddresses retrieves a user's addresses
func (s *UserService) GetAddresses(userID string) ([]models.Address, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, address_type, address_name, address, city, postal_code, country, phone, is_default
		FROM addresses WHERE user_id = ? ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		err := rows.Scan(
			&a.ID, &a.UserID, &a.AddressType, &a.AddressName, &a.Address,
			&a.City, &a.PostalCode, &a.Country, &a.Phone, &a.IsDefault,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}

// AddAddress adds a new address to the user's profile. When the new
// address is marked default, the default flag is cleared on every other
// address in the same transaction.
func (s *UserService) AddAddress(userID string, creation *models.AddressCreate) ([]models.Address, error) {
	if err := utils.ValidateStruct(creation); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if creation.IsDefault {
		if _, err := tx.Exec("UPDATE addresses SET is_default = 0 WHERE user_id = ?", userID); err != nil {
			return nil, fmt.Errorf("failed to clear default addresses: %w", err)
		}
	}

	addressType := creation.AddressType
	if addressType == "" {
		addressType = "home"
	}

	_, err = tx.Exec(`
		INSERT INTO addresses (id, user_id, address_type, address_name, address, city, postal_code, country, phone, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), userID, addressType, creation.AddressName, creation.Address,
		creation.City, creation.PostalCode, creation.Country, creation.Phone, creation.IsDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetAddresses(userID)
}

// UpdateAddress applies a partial update to one of the user's addresses
func (s *UserService) UpdateAddress(userID, addressID string, update *models.AddressUpdate) ([]models.Address, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var a models.Address
	err = tx.QueryRow(`
		SELECT id, user_id, address_type, address_name, address, city, postal_code, country, phone, is_default
		FROM addresses WHERE id = ? AND user_id = ?
	`, addressID, userID).Scan(
		&a.ID, &a.UserID, &a.AddressType, &a.AddressName, &a.Address,
		&a.City, &a.PostalCode, &a.Country, &a.Phone, &a.IsDefault,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	if update.AddressType != nil {
		a.AddressType = *update.AddressType
	}
	if update.AddressName != nil {
		a.AddressName = *update.AddressName
	}
	if update.Address != nil {
		a.Address = *update.Address
	}
	if update.City != nil {
		a.City = *update.City
	}
	if update.PostalCode != nil {
		a.PostalCode = *update.PostalCode
	}
	if update.Country != nil {
		a.Country = *update.Country
	}
	if update.Phone != nil {
		a.Phone = *update.Phone
	}
	if update.IsDefault != nil {
		a.IsDefault = *update.IsDefault
	}

	if a.IsDefault {
		if _, err := tx.Exec("UPDATE addresses SET is_default = 0 WHERE user_id = ? AND id != ?", userID, addressID); err != nil {
			return nil, fmt.Errorf("failed to clear default addresses: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE addresses SET address_type = ?, address_name = ?, address = ?, city = ?,
			postal_code = ?, country = ?, phone = ?, is_default = ?
		WHERE id = ? AND user_id = ?
	`, a.AddressType, a.AddressName, a.Address, a.City, a.PostalCode, a.Country, a.Phone, a.IsDefault,
		addressID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetAddresses(userID)
}

// DeleteAddress removes one of the user's addresses
func (s *UserService) DeleteAddress(userID, addressID string) ([]models.Address, error) {
	result, err := s.db.Exec("DELETE FROM addresses WHERE id = ? AND user_id = ?", addressID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrAddressNotFound
	}

	return s.GetAddresses(userID)
}

// GetWishlist retrieves the user's wishlist joined with product data
func (s *UserService) GetWishlist(userID string) ([]*models.WishlistItem, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.user_id, w.product_id, w.added_at,
			   p.id, p.name, p.description, p.category, p.price, p.old_price, p.image,
			   p.count_in_stock, p.rating, p.review_count, p.is_new, p.on_sale, p.featured,
			   p.created_at, p.updated_at
		FROM wishlist w
		INNER JOIN products p ON w.product_id = p.id
		WHERE w.user_id = ?
		ORDER BY w.added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := []*models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		var product models.Product
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.AddedAt,
			&product.ID, &product.Name, &product.Description, &product.Category,
			&product.Price, &product.OldPrice, &product.Image, &product.CountInStock,
			&product.Rating, &product.ReviewCount, &product.IsNew, &product.OnSale,
			&product.Featured, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		item.Product = &product
		items = append(items, &item)
	}

	return items, rows.Err()
}

// AddToWishlist adds a product to the user's wishlist. Duplicates are
// rejected.
func (s *UserService) AddToWishlist(userID, productID string) ([]*models.WishlistItem, error) {
	var exists string
	err := s.db.QueryRow("SELECT id FROM products WHERE id = ?", productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	err = s.db.QueryRow("SELECT id FROM wishlist WHERE user_id = ? AND product_id = ?", userID, productID).Scan(&exists)
	if err == nil {
		return nil, ErrAlreadyInWishlist
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO wishlist (id, user_id, product_id, added_at) VALUES (?, ?, ?, ?)
	`, uuid.New().String(), userID, productID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	return s.GetWishlist(userID)
}

// RemoveFromWishlist removes a product from the user's wishlist
func (s *UserService) RemoveFromWishlist(userID, productID string) ([]*models.WishlistItem, error) {
	result, err := s.db.Exec("DELETE FROM wishlist WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove from wishlist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return s.GetWishlist(userID)
}

// ListUsers retrieves all user accounts (admin)
func (s *UserService) ListUsers() ([]*models.User, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, password_hash, is_admin, phone, created_at, updated_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.IsAdmin, &user.Phone, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// AdminUpdateUser applies an admin update to another user's account
func (s *UserService) AdminUpdateUser(userID string, update *models.AdminUserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = utils.NormalizeEmail(*update.Email)
	}
	if update.IsAdmin != nil {
		user.IsAdmin = *update.IsAdmin
	}
	user.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE users SET name = ?, email = ?, is_admin = ?, updated_at = ? WHERE id = ?
	`, user.Name, user.Email, user.IsAdmin, user.UpdatedAt, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user account (admin)
func (s *UserService) DeleteUser(userID string) error {
	result, err := s.db.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
