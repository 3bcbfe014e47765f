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

const orderPageSize = 10

// OrderService handles order lifecycle business logic
type OrderService struct {
	db *sql.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder records a new order and decrements stock for every line
// item in one transaction. Items whose product no longer exists are
// skipped; a line asking for more units than remain in stock aborts the
// whole order.
func (s *OrderService) CreateOrder(userID string, creation *models.OrderCreate) (*models.Order, error) {
	if len(creation.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := utils.ValidateStruct(creation); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		ShippingAddress: creation.ShippingAddress,
		PaymentMethod:   creation.PaymentMethod,
		TaxPrice:        creation.TaxPrice,
		ShippingPrice:   creation.ShippingPrice,
		TotalPrice:      creation.TotalPrice,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO orders (id, user_id, shipping_address, shipping_city, shipping_postal_code,
			shipping_country, payment_method, tax_price, shipping_price, total_price,
			is_paid, is_delivered, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)
	`, order.ID, order.UserID, order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country, order.PaymentMethod,
		order.TaxPrice, order.ShippingPrice, order.TotalPrice, order.Status,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, input := range creation.Items {
		var name, image string
		var price float64
		err := tx.QueryRow("SELECT name, image, price FROM products WHERE id = ?", input.ProductID).
			Scan(&name, &image, &price)
		if err == sql.ErrNoRows {
			// Product removed from the catalog since the cart was built
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", input.ProductID, err)
		}

		// Conditional decrement. Zero rows means another order got the
		// remaining stock first, or there was never enough.
		result, err := tx.Exec(`
			UPDATE products SET count_in_stock = count_in_stock - ?, updated_at = ?
			WHERE id = ? AND count_in_stock >= ?
		`, input.Quantity, time.Now(), input.ProductID, input.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust stock for %s: %w", input.ProductID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, name)
		}

		item := models.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: input.ProductID,
			Name:      name,
			Image:     image,
			Price:     price,
			Quantity:  input.Quantity,
		}
		_, err = tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, name, image, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, item.ID, item.OrderID, item.ProductID, item.Name, item.Image, item.Price, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// GetOrder retrieves an order with its items and the owner's name and
// email. Non-admin callers may only read their own orders.
func (s *OrderService) GetOrder(orderID, requesterID string, isAdmin bool) (*models.Order, error) {
	order, err := s.getOrderRow(orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, ErrNotAuthorized
	}

	return order, nil
}

const orderColumns = `
	SELECT o.id, o.user_id, o.shipping_address, o.shipping_city, o.shipping_postal_code,
		   o.shipping_country, o.payment_method, o.tax_price, o.shipping_price, o.total_price,
		   o.is_paid, o.paid_at, o.payment_id, o.payment_status, o.payment_update_time,
		   o.payment_email, o.is_delivered, o.delivered_at, o.status, o.tracking_number,
		   o.note, o.created_at, o.updated_at, u.name, u.email
	FROM orders o
	LEFT JOIN users u ON o.user_id = u.id`

func (s *OrderService) getOrderRow(orderID string) (*models.Order, error) {
	orders, err := s.queryOrders(" WHERE o.id = ?", orderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// queryOrders runs the order select with the given clause and loads all
// line items for the result set in a single batched query
func (s *OrderService) queryOrders(clause string, args ...interface{}) ([]*models.Order, error) {
	rows, err := s.db.Query(orderColumns+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		var o models.Order
		var paymentID, paymentStatus, paymentUpdateTime, paymentEmail string
		err := rows.Scan(
			&o.ID, &o.UserID, &o.ShippingAddress.Address, &o.ShippingAddress.City,
			&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country, &o.PaymentMethod,
			&o.TaxPrice, &o.ShippingPrice, &o.TotalPrice, &o.IsPaid, &o.PaidAt,
			&paymentID, &paymentStatus, &paymentUpdateTime, &paymentEmail,
			&o.IsDelivered, &o.DeliveredAt, &o.Status, &o.TrackingNumber, &o.Note,
			&o.CreatedAt, &o.UpdatedAt, &o.UserName, &o.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if paymentID != "" {
			o.PaymentResult = &models.PaymentResult{
				ID:         paymentID,
				Status:     paymentStatus,
				UpdateTime: paymentUpdateTime,
				Email:      paymentEmail,
			}
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	if err := s.attachItems(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) attachItems(orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*models.Order, len(orders))
	placeholders := make([]string, len(orders))
	args := make([]interface{}, len(orders))
	for i, o := range orders {
		o.Items = []models.OrderItem{}
		byID[o.ID] = o
		placeholders[i] = "?"
		args[i] = o.ID
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT id, order_id, product_id, name, image, price, quantity
		FROM order_items WHERE order_id IN (%s) ORDER BY rowid
	`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Image, &item.Price, &item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

// MarkPaid records a successful payment on the order
func (s *OrderService) MarkPaid(orderID string, payment *models.PaymentResult) (*models.Order, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		UPDATE orders SET is_paid = 1, paid_at = ?, payment_id = ?, payment_status = ?,
			payment_update_time = ?, payment_email = ?, updated_at = ?
		WHERE id = ?
	`, now, payment.ID, payment.Status, payment.UpdateTime, payment.Email, now, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return s.getOrderRow(orderID)
}

// MarkDelivered records delivery on the order and moves it to the
// delivered state
func (s *OrderService) MarkDelivered(orderID string) (*models.Order, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		UPDATE orders SET is_delivered = 1, delivered_at = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, now, models.OrderStatusDelivered, now, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return s.getOrderRow(orderID)
}

// UpdateStatus applies an admin status update. Moving to delivered also
// stamps the delivery fields; an unknown status is rejected.
func (s *OrderService) UpdateStatus(orderID string, update *models.OrderStatusUpdate) (*models.Order, error) {
	order, err := s.getOrderRow(orderID)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !models.ValidOrderStatus(*update.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *update.Status)
		}
		order.Status = *update.Status
		if order.Status == models.OrderStatusDelivered {
			now := time.Now()
			order.IsDelivered = true
			order.DeliveredAt = &now
		}
	}
	if update.TrackingNumber != nil {
		order.TrackingNumber = *update.TrackingNumber
	}
	order.UpdatedAt = time.Now()

	_, err = s.db.Exec(`
		UPDATE orders SET status = ?, tracking_number = ?, is_delivered = ?, delivered_at = ?, updated_at = ?
		WHERE id = ?
	`, order.Status, order.TrackingNumber, order.IsDelivered, order.DeliveredAt, order.UpdatedAt, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// CancelOrder cancels an order and returns its items to stock. Only the
// owner or an admin may cancel; delivered and shipped orders cannot be
// cancelled. Stock is restored for items whose product still exists.
func (s *OrderService) CancelOrder(orderID, requesterID string, isAdmin bool) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.OrderStatus
	var ownerID string
	err = tx.QueryRow("SELECT user_id, status FROM orders WHERE id = ?", orderID).Scan(&ownerID, &status)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !isAdmin && ownerID != requesterID {
		return nil, ErrNotAuthorized
	}
	if status == models.OrderStatusDelivered || status == models.OrderStatusShipped {
		return nil, ErrOrderNotCancellable
	}

	rows, err := tx.Query("SELECT product_id, quantity FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	type restock struct {
		productID string
		quantity  int
	}
	restocks := []restock{}
	for rows.Next() {
		var r restock
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		restocks = append(restocks, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	rows.Close()

	for _, r := range restocks {
		// Missing products are simply skipped, the UPDATE matches nothing
		_, err := tx.Exec(`
			UPDATE products SET count_in_stock = count_in_stock + ?, updated_at = ? WHERE id = ?
		`, r.quantity, time.Now(), r.productID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore stock for %s: %w", r.productID, err)
		}
	}

	_, err = tx.Exec(`
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ?
	`, models.OrderStatusCancelled, time.Now(), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.getOrderRow(orderID)
}

// AddNote sets the admin note on an order, replacing any previous note
func (s *OrderService) AddNote(orderID, note string) (*models.Order, error) {
	result, err := s.db.Exec(`
		UPDATE orders SET note = ?, updated_at = ? WHERE id = ?
	`, note, time.Now(), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to set order note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return s.getOrderRow(orderID)
}

// ListOrdersForUser returns all of a user's orders, newest first
func (s *OrderService) ListOrdersForUser(userID string) ([]*models.Order, error) {
	return s.queryOrders(" WHERE o.user_id = ? ORDER BY o.created_at DESC", userID)
}

// ListAllOrders returns a page of all orders, newest first, with each
// owner's name attached (admin)
func (s *OrderService) ListAllOrders(page int) (*models.OrderPage, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders, err := s.queryOrders(" ORDER BY o.created_at DESC LIMIT ? OFFSET ?",
		orderPageSize, (page-1)*orderPageSize)
	if err != nil {
		return nil, err
	}

	pages := (total + orderPageSize - 1) / orderPageSize
	return &models.OrderPage{
		Orders:      orders,
		Page:        page,
		Pages:       pages,
		TotalOrders: total,
	}, nil
}
