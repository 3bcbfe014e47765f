package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/services"
)

// UserHandlers handles address, wishlist and admin user endpoints
type UserHandlers struct {
	userService *services.UserService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(db *sql.DB) *UserHandlers {
	return &UserHandlers{
		userService: services.NewUserService(db),
	}
}

// AddAddress handles POST /api/users/address
func (h *UserHandlers) AddAddress(c *gin.Context) {
	userID := c.GetString("userID")

	var creation models.AddressCreate
	if err := c.ShouldBindJSON(&creation); err != nil {
		respondBindError(c)
		return
	}

	addresses, err := h.userService.AddAddress(userID, &creation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addresses)
}

// UpdateAddress handles PUT /api/users/address/:id
func (h *UserHandlers) UpdateAddress(c *gin.Context) {
	userID := c.GetString("userID")

	var update models.AddressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	addresses, err := h.userService.UpdateAddress(userID, c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// DeleteAddress handles DELETE /api/users/address/:id
func (h *UserHandlers) DeleteAddress(c *gin.Context) {
	userID := c.GetString("userID")

	addresses, err := h.userService.DeleteAddress(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// GetWishlist handles GET /api/users/wishlist
func (h *UserHandlers) GetWishlist(c *gin.Context) {
	items, err := h.userService.GetWishlist(c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToWishlist handles POST /api/users/wishlist/:productId
func (h *UserHandlers) AddToWishlist(c *gin.Context) {
	items, err := h.userService.AddToWishlist(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, items)
}

// RemoveFromWishlist handles DELETE /api/users/wishlist/:productId
func (h *UserHandlers) RemoveFromWishlist(c *gin.Context) {
	items, err := h.userService.RemoveFromWishlist(c.GetString("userID"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListUsers handles GET /api/users (admin)
func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id (admin)
func (h *UserHandlers) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:id (admin)
func (h *UserHandlers) UpdateUser(c *gin.Context) {
	var update models.AdminUserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.AdminUpdateUser(c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id (admin)
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Kullanıcı silindi"})
}
