package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"maker3d-backend/database"
	"maker3d-backend/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, name, email string, isAdmin bool) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_, err = db.Exec(`
		INSERT INTO users (id, name, email, password_hash, is_admin, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin, user.Phone,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to insert test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *sql.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  "test product",
		Category:     models.ProductCategoryFilaments,
		Price:        price,
		Image:        "/images/test.jpg",
		CountInStock: stock,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_, err := db.Exec(`
		INSERT INTO products (id, name, description, category, price, old_price, image,
			count_in_stock, rating, review_count, is_new, on_sale, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, 0, 0, 0, 0, 0, ?, ?)
	`, product.ID, product.Name, product.Description, product.Category, product.Price,
		product.Image, product.CountInStock, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to insert test product: %v", err)
	}
	return product
}

func productStock(t *testing.T, db *sql.DB, productID string) int {
	t.Helper()

	var stock int
	if err := db.QueryRow("SELECT count_in_stock FROM products WHERE id = ?", productID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}
