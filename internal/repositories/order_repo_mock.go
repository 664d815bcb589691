package repositories

import (
	"fmt"
	"sort"
	"sync"

	"drogaria/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// shares a MockProductRepository so that order creation decrements the same
// stock figures the catalog reads.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository backed
// by the given product repository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// Create reserves stock for each line and stores the order. All decrements
// are undone when a later line fails.
func (r *MockOrderRepository) Create(order *models.Order, quantities map[uint64]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	decremented := make(map[uint64]int)
	for sequentialID, qty := range quantities {
		if err := r.products.decrementStock(sequentialID, qty); err != nil {
			for id, taken := range decremented {
				r.products.restoreStock(id, taken)
			}
			return err
		}
		decremented[sequentialID] = qty
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by primary key.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByNumber returns an order by its customer-facing number.
func (r *MockOrderRepository) GetByNumber(number uint64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Number == number {
			out := o
			return &out, nil
		}
	}
	return nil, fmt.Errorf("order %d: %w", number, ErrNotFound)
}

// ListByCustomer returns a customer's orders, newest first.
func (r *MockOrderRepository) ListByCustomer(customerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *MockOrderRepository) ListAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// Update modifies an existing order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order %s for update: %w", order.ID, ErrNotFound)
	}
	r.orders[order.ID] = *order
	return nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Number > orders[j].Number
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
