package repositories

import (
	"fmt"
	"sync"

	"drogaria/internal/models"

	"github.com/google/uuid"
)

// MockCustomerRepository is an in-memory implementation of CustomerRepository.
type MockCustomerRepository struct {
	customers map[string]models.Customer
	mu        sync.RWMutex
}

// NewMockCustomerRepository creates a new instance of MockCustomerRepository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]models.Customer)}
}

// Create adds a new customer.
func (r *MockCustomerRepository) Create(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.customers[customer.ID] = *customer
	return nil
}

// GetByID returns a customer by primary key.
func (r *MockCustomerRepository) GetByID(id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return &customer, nil
}

// GetByEmail returns a customer by email, surfacing ErrDataIntegrity when
// more than one record matches.
func (r *MockCustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.Customer
	for _, c := range r.customers {
		if c.Email == email {
			if found != nil {
				return nil, fmt.Errorf("duplicate customer email %s: %w", email, ErrDataIntegrity)
			}
			out := c
			found = &out
		}
	}
	if found == nil {
		return nil, fmt.Errorf("customer with email %s: %w", email, ErrNotFound)
	}
	return found, nil
}

// ExistsByEmail reports whether a customer with the email exists.
func (r *MockCustomerRepository) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByCPF reports whether a customer with the CPF exists.
func (r *MockCustomerRepository) ExistsByCPF(cpf string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

// Update modifies an existing customer.
func (r *MockCustomerRepository) Update(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %s for update: %w", customer.ID, ErrNotFound)
	}
	r.customers[customer.ID] = *customer
	return nil
}
