package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/services"
	"maker3d-backend/internal/utils"
)

// ProductHandlers handles catalog endpoints
type ProductHandlers struct {
	catalogService *services.CatalogService
	userService    *services.UserService
}

// NewProductHandlers creates new product handlers
func NewProductHandlers(db *sql.DB) *ProductHandlers {
	return &ProductHandlers{
		catalogService: services.NewCatalogService(db),
		userService:    services.NewUserService(db),
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandlers) ListProducts(c *gin.Context) {
	filter := services.ProductFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
		Page:     utils.ParseIntOrDefault(c.Query("pageNumber"), 1),
	}

	page, err := h.catalogService.ListProducts(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandlers) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetTopProducts handles GET /api/products/top
func (h *ProductHandlers) GetTopProducts(c *gin.Context) {
	products, err := h.catalogService.GetTopProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetFeaturedProducts handles GET /api/products/featured
func (h *ProductHandlers) GetFeaturedProducts(c *gin.Context) {
	products, err := h.catalogService.GetFeaturedProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetNewProducts handles GET /api/products/new
func (h *ProductHandlers) GetNewProducts(c *gin.Context) {
	products, err := h.catalogService.GetNewProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetSaleProducts handles GET /api/products/sale
func (h *ProductHandlers) GetSaleProducts(c *gin.Context) {
	products, err := h.catalogService.GetSaleProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductsByCategory handles GET /api/products/category/:category
func (h *ProductHandlers) GetProductsByCategory(c *gin.Context) {
	products, err := h.catalogService.GetProductsByCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products (admin)
func (h *ProductHandlers) CreateProduct(c *gin.Context) {
	var creation models.ProductCreate
	if err := c.ShouldBindJSON(&creation); err != nil {
		respondBindError(c)
		return
	}

	product, err := h.catalogService.CreateProduct(&creation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id (admin)
func (h *ProductHandlers) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id (admin)
func (h *ProductHandlers) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ürün silindi"})
}

// CreateReview handles POST /api/products/:id/reviews
func (h *ProductHandlers) CreateReview(c *gin.Context) {
	userID := c.GetString("userID")

	var creation models.ReviewCreate
	if err := c.ShouldBindJSON(&creation); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.catalogService.AddReview(c.Param("id"), userID, user.Name, &creation); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Değerlendirme eklendi"})
}
