package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/services"
)

// AuthHandlers handles registration, login and profile endpoints
type AuthHandlers struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(db *sql.DB, authService *services.AuthService) *AuthHandlers {
	return &AuthHandlers{
		userService: services.NewUserService(db),
		authService: authService,
	}
}

func (h *AuthHandlers) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Phone:   user.Phone,
		Token:   token,
	}, nil
}

// Register handles POST /api/users
func (h *AuthHandlers) Register(c *gin.Context) {
	var registration models.UserRegistration
	if err := c.ShouldBindJSON(&registration); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.CreateUser(&registration)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authResponse(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/users/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var login models.UserLogin
	if err := c.ShouldBindJSON(&login); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.Authenticate(&login)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authResponse(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /api/users/profile
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	addresses, err := h.userService.GetAddresses(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Addresses = addresses

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile. A fresh token is
// issued since the email may have changed.
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	userID := c.GetString("userID")

	var update models.UserProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.UpdateProfile(userID, &update)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authResponse(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
