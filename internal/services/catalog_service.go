package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/utils"
)

const productPageSize = 8

// CatalogService handles product catalog business logic
type CatalogService struct {
	db *sql.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductFilter describes the listing query parameters
type ProductFilter struct {
	Keyword  string
	Category string
	SortBy   string
	Page     int
}

// ListProducts returns a page of products matching the filter
func (s *CatalogService) ListProducts(filter ProductFilter) (*models.ProductPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	where := []string{}
	args := []interface{}{}

	if filter.Keyword != "" {
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" && filter.Category != "all" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM products"+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy := " ORDER BY created_at DESC"
	switch filter.SortBy {
	case "price-low":
		orderBy = " ORDER BY price ASC"
	case "price-high":
		orderBy = " ORDER BY price DESC"
	case "rating":
		orderBy = " ORDER BY rating DESC"
	}

	query := `
		SELECT id, name, description, category, price, old_price, image, count_in_stock,
			   rating, review_count, is_new, on_sale, featured, created_at, updated_at
		FROM products` + whereClause + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, productPageSize, (page-1)*productPageSize)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	pages := (total + productPageSize - 1) / productPageSize
	return &models.ProductPage{
		Products:      products,
		Page:          page,
		Pages:         pages,
		TotalProducts: total,
	}, nil
}

// GetProduct retrieves a product with its specifications and reviews
func (s *CatalogService) GetProduct(productID string) (*models.Product, error) {
	product, err := s.getProductRow(productID)
	if err != nil {
		return nil, err
	}

	specs, err := s.getSpecifications(productID)
	if err != nil {
		return nil, err
	}
	product.Specifications = specs

	reviews, err := s.getReviews(productID)
	if err != nil {
		return nil, err
	}
	product.Reviews = reviews

	return product, nil
}

func (s *CatalogService) getProductRow(productID string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(`
		SELECT id, name, description, category, price, old_price, image, count_in_stock,
			   rating, review_count, is_new, on_sale, featured, created_at, updated_at
		FROM products WHERE id = ?
	`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.OldPrice, &p.Image,
		&p.CountInStock, &p.Rating, &p.ReviewCount, &p.IsNew, &p.OnSale, &p.Featured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (s *CatalogService) getSpecifications(productID string) ([]models.Specification, error) {
	rows, err := s.db.Query(`
		SELECT name, value FROM product_specifications WHERE product_id = ? ORDER BY position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query specifications: %w", err)
	}
	defer rows.Close()

	specs := []models.Specification{}
	for rows.Next() {
		var spec models.Specification
		if err := rows.Scan(&spec.Name, &spec.Value); err != nil {
			return nil, fmt.Errorf("failed to scan specification: %w", err)
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

func (s *CatalogService) getReviews(productID string) ([]models.Review, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, user_id, name, rating, comment, created_at
		FROM product_reviews WHERE product_id = ? ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Name, &r.Rating, &r.Comment, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CreateProduct adds a new product to the catalog (admin)
func (s *CatalogService) CreateProduct(creation *models.ProductCreate) (*models.Product, error) {
	if err := utils.ValidateStruct(creation); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !models.ValidProductCategory(creation.Category) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, creation.Category)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	product := &models.Product{
		ID:             uuid.New().String(),
		Name:           creation.Name,
		Description:    creation.Description,
		Category:       creation.Category,
		Price:          creation.Price,
		OldPrice:       creation.OldPrice,
		Image:          creation.Image,
		CountInStock:   creation.CountInStock,
		IsNew:          true,
		OnSale:         creation.OldPrice != nil,
		Featured:       creation.Featured,
		Specifications: creation.Specifications,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO products (id, name, description, category, price, old_price, image,
			count_in_stock, rating, review_count, is_new, on_sale, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?)
	`, product.ID, product.Name, product.Description, product.Category, product.Price,
		product.OldPrice, product.Image, product.CountInStock, product.IsNew, product.OnSale,
		product.Featured, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	for i, spec := range product.Specifications {
		_, err = tx.Exec(`
			INSERT INTO product_specifications (id, product_id, name, value, position) VALUES (?, ?, ?, ?, ?)
		`, uuid.New().String(), product.ID, spec.Name, spec.Value, i)
		if err != nil {
			return nil, fmt.Errorf("failed to insert specification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return product, nil
}

// UpdateProduct applies a partial update to a product (admin).
// Passing specifications replaces the full set.
func (s *CatalogService) UpdateProduct(productID string, update *models.ProductUpdate) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var p models.Product
	err = tx.QueryRow(`
		SELECT id, name, description, category, price, old_price, image, count_in_stock,
			   rating, review_count, is_new, on_sale, featured, created_at, updated_at
		FROM products WHERE id = ?
	`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.OldPrice, &p.Image,
		&p.CountInStock, &p.Rating, &p.ReviewCount, &p.IsNew, &p.OnSale, &p.Featured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Category != nil {
		if !models.ValidProductCategory(*update.Category) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, *update.Category)
		}
		p.Category = *update.Category
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.OldPrice != nil {
		p.OldPrice = update.OldPrice
	}
	if update.Image != nil {
		p.Image = *update.Image
	}
	if update.CountInStock != nil {
		p.CountInStock = *update.CountInStock
	}
	if update.IsNew != nil {
		p.IsNew = *update.IsNew
	}
	if update.OnSale != nil {
		p.OnSale = *update.OnSale
	}
	if update.Featured != nil {
		p.Featured = *update.Featured
	}
	p.UpdatedAt = time.Now()

	_, err = tx.Exec(`
		UPDATE products SET name = ?, description = ?, category = ?, price = ?, old_price = ?,
			image = ?, count_in_stock = ?, is_new = ?, on_sale = ?, featured = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Category, p.Price, p.OldPrice, p.Image, p.CountInStock,
		p.IsNew, p.OnSale, p.Featured, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if update.Specifications != nil {
		if _, err := tx.Exec("DELETE FROM product_specifications WHERE product_id = ?", productID); err != nil {
			return nil, fmt.Errorf("failed to clear specifications: %w", err)
		}
		for i, spec := range update.Specifications {
			_, err = tx.Exec(`
				INSERT INTO product_specifications (id, product_id, name, value, position) VALUES (?, ?, ?, ?, ?)
			`, uuid.New().String(), productID, spec.Name, spec.Value, i)
			if err != nil {
				return nil, fmt.Errorf("failed to insert specification: %w", err)
			}
		}
		p.Specifications = update.Specifications
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &p, nil
}

// DeleteProduct removes a product from the catalog (admin)
func (s *CatalogService) DeleteProduct(productID string) error {
	result, err := s.db.Exec("DELETE FROM products WHERE id = ?", productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// GetTopProducts returns the highest rated products
func (s *CatalogService) GetTopProducts() ([]*models.Product, error) {
	return s.listWhere("", "rating DESC", 5)
}

// GetFeaturedProducts returns products flagged as featured
func (s *CatalogService) GetFeaturedProducts() ([]*models.Product, error) {
	return s.listWhere("featured = 1", "created_at DESC", productPageSize)
}

// GetNewProducts returns products flagged as new
func (s *CatalogService) GetNewProducts() ([]*models.Product, error) {
	return s.listWhere("is_new = 1", "created_at DESC", productPageSize)
}

// GetSaleProducts returns products currently on sale
func (s *CatalogService) GetSaleProducts() ([]*models.Product, error) {
	return s.listWhere("on_sale = 1", "created_at DESC", productPageSize)
}

// GetProductsByCategory returns all products in one category
func (s *CatalogService) GetProductsByCategory(category string) ([]*models.Product, error) {
	if !models.ValidProductCategory(models.ProductCategory(category)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}

	rows, err := s.db.Query(`
		SELECT id, name, description, category, price, old_price, image, count_in_stock,
			   rating, review_count, is_new, on_sale, featured, created_at, updated_at
		FROM products WHERE category = ? ORDER BY created_at DESC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *CatalogService) listWhere(condition, orderBy string, limit int) ([]*models.Product, error) {
	query := `
		SELECT id, name, description, category, price, old_price, image, count_in_stock,
			   rating, review_count, is_new, on_sale, featured, created_at, updated_at
		FROM products`
	if condition != "" {
		query += " WHERE " + condition
	}
	query += " ORDER BY " + orderBy + " LIMIT ?"

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {
	products := []*models.Product{}
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.OldPrice, &p.Image,
			&p.CountInStock, &p.Rating, &p.ReviewCount, &p.IsNew, &p.OnSale, &p.Featured,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// AddReview records a customer review and recomputes the product's
// rating and review count. Each user may review a product once.
func (s *CatalogService) AddReview(productID, userID, userName string, creation *models.ReviewCreate) (*models.Product, error) {
	if err := utils.ValidateStruct(creation); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRow("SELECT id FROM products WHERE id = ?", productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	err = tx.QueryRow("SELECT id FROM product_reviews WHERE product_id = ? AND user_id = ?", productID, userID).Scan(&exists)
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check reviews: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO product_reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), productID, userID, userName, creation.Rating, creation.Comment, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE products SET
			rating = (SELECT AVG(rating) FROM product_reviews WHERE product_id = ?),
			review_count = (SELECT COUNT(*) FROM product_reviews WHERE product_id = ?),
			updated_at = ?
		WHERE id = ?
	`, productID, productID, time.Now(), productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProduct(productID)
}
