package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maker3d-backend/internal/models"
	"maker3d-backend/internal/services"
	"maker3d-backend/internal/utils"
)

// OrderHandlers handles order lifecycle endpoints
type OrderHandlers struct {
	orderService *services.OrderService
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(db *sql.DB) *OrderHandlers {
	return &OrderHandlers{
		orderService: services.NewOrderService(db),
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c *gin.Context) {
	userID := c.GetString("userID")

	var creation models.OrderCreate
	if err := c.ShouldBindJSON(&creation); err != nil {
		respondBindError(c)
		return
	}

	order, err := h.orderService.CreateOrder(userID, &creation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetMyOrders handles GET /api/orders/myorders
func (h *OrderHandlers) GetMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrdersForUser(c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandlers) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Param("id"), c.GetString("userID"), c.GetBool("isAdmin"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// PayOrder handles PUT /api/orders/:id/pay
func (h *OrderHandlers) PayOrder(c *gin.Context) {
	var payment models.PaymentResultInput
	if err := c.ShouldBindJSON(&payment); err != nil {
		respondBindError(c)
		return
	}

	order, err := h.orderService.MarkPaid(c.Param("id"), payment.Result())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder handles PUT /api/orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Param("id"), c.GetString("userID"), c.GetBool("isAdmin"))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Bu siparişi iptal etme yetkiniz yok"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/orders (admin)
func (h *OrderHandlers) ListOrders(c *gin.Context) {
	page, err := h.orderService.ListAllOrders(utils.ParseIntOrDefault(c.Query("pageNumber"), 1))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeliverOrder handles PUT /api/orders/:id/deliver (admin)
func (h *OrderHandlers) DeliverOrder(c *gin.Context) {
	order, err := h.orderService.MarkDelivered(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PUT /api/orders/:id/status (admin)
func (h *OrderHandlers) UpdateOrderStatus(c *gin.Context) {
	var update models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// AddOrderNote handles PUT /api/orders/:id/note (admin)
func (h *OrderHandlers) AddOrderNote(c *gin.Context) {
	var update models.OrderNoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c)
		return
	}

	order, err := h.orderService.AddNote(c.Param("id"), update.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
