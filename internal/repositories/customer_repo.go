package repositories

import "drogaria/internal/models"

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	// GetByEmail must match at most one record; more than one wraps
	// ErrDataIntegrity.
	GetByEmail(email string) (*models.Customer, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByCPF(cpf string) (bool, error)
	Update(customer *models.Customer) error
}
