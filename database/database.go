package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") && !strings.HasPrefix(databaseURL, ":memory:") {
		databaseURL += "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	return db, nil
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createAddressesTable,
		createWishlistTable,
		createProductsTable,
		createProductSpecificationsTable,
		createProductReviewsTable,
		createOrdersTable,
		createOrderItemsTable,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates indexes for the hot query paths
func createIndexes(db *sql.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_rating ON products(rating DESC)",
		"CREATE INDEX IF NOT EXISTS idx_product_reviews_product ON product_reviews(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return err
		}
	}
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT 0,
	phone TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createAddressesTable = `
CREATE TABLE IF NOT EXISTS addresses (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	address_type TEXT NOT NULL DEFAULT 'home',
	address_name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	postal_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	is_default BOOLEAN NOT NULL DEFAULT 0,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`

const createWishlistTable = `
CREATE TABLE IF NOT EXISTS wishlist (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, product_id),
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	price REAL NOT NULL DEFAULT 0,
	old_price REAL,
	image TEXT NOT NULL DEFAULT '',
	count_in_stock INTEGER NOT NULL DEFAULT 0,
	rating REAL NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	is_new BOOLEAN NOT NULL DEFAULT 0,
	on_sale BOOLEAN NOT NULL DEFAULT 0,
	featured BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createProductSpecificationsTable = `
CREATE TABLE IF NOT EXISTS product_specifications (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
)`

const createProductReviewsTable = `
CREATE TABLE IF NOT EXISTS product_reviews (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	rating INTEGER NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(product_id, user_id),
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
)`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	shipping_address TEXT NOT NULL,
	shipping_city TEXT NOT NULL,
	shipping_postal_code TEXT NOT NULL DEFAULT '',
	shipping_country TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL,
	tax_price REAL NOT NULL DEFAULT 0,
	shipping_price REAL NOT NULL DEFAULT 0,
	total_price REAL NOT NULL DEFAULT 0,
	is_paid BOOLEAN NOT NULL DEFAULT 0,
	paid_at DATETIME,
	payment_id TEXT NOT NULL DEFAULT '',
	payment_status TEXT NOT NULL DEFAULT '',
	payment_update_time TEXT NOT NULL DEFAULT '',
	payment_email TEXT NOT NULL DEFAULT '',
	is_delivered BOOLEAN NOT NULL DEFAULT 0,
	delivered_at DATETIME,
	status TEXT NOT NULL DEFAULT 'pending',
	tracking_number TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(id)
)`

const createOrderItemsTable = `
CREATE TABLE IF NOT EXISTS order_items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL,
	quantity INTEGER NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
)`
