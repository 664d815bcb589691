package repositories

import "drogaria/internal/models"

// OrderRepository defines persistence for customer orders.
//
// Create atomically reserves stock for every line in quantities (keyed by
// product sequential ID) and inserts the order. When any product lacks stock
// the whole operation is rolled back and an *InsufficientStockError is
// returned.
type OrderRepository interface {
	Create(order *models.Order, quantities map[uint64]int) error
	GetByID(id string) (*models.Order, error)
	GetByNumber(number uint64) (*models.Order, error)
	ListByCustomer(customerID string) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	Update(order *models.Order) error
}
