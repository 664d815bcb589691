package repositories

import (
	"errors"
	"fmt"

	"drogaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository implements OrderRepository using GORM.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts the order inside a transaction that first decrements stock
// for every ordered product. The decrement is conditional on the remaining
// stock so concurrent checkouts can never drive it negative.
func (r *GORMOrderRepository) Create(order *models.Order, quantities map[uint64]int) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for sequentialID, qty := range quantities {
			result := tx.Model(&models.Product{}).
				Where("sequential_id = ? AND active = ? AND stock >= ?", sequentialID, true, qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", qty))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock for product %d: %w", sequentialID, result.Error)
			}
			if result.RowsAffected == 0 {
				return &InsufficientStockError{ProductSequentialID: sequentialID}
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})

	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr
	}
	return err
}

// GetByID returns an order by primary key.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetByNumber returns an order by its customer-facing number.
func (r *GORMOrderRepository) GetByNumber(number uint64) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", number, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", number, err)
	}
	return &order, nil
}

// ListByCustomer returns a customer's orders, newest first.
func (r *GORMOrderRepository) ListByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Update modifies an existing order.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	result := r.db.Save(order)
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s for update: %w", order.ID, ErrNotFound)
	}
	return nil
}
