package repositories

import (
	"errors"
	"fmt"

	"drogaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{db: db}
}

// Create inserts a new customer.
func (r *GORMCustomerRepository) Create(customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if err := r.db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by primary key.
func (r *GORMCustomerRepository) GetByID(id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	return &customer, nil
}

// GetByEmail retrieves a customer by email. Email carries a unique index;
// should legacy duplicates exist anyway, the lookup surfaces
// ErrDataIntegrity instead of guessing a winner.
func (r *GORMCustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Where("email = ?", email).Limit(2).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	switch len(customers) {
	case 0:
		return nil, fmt.Errorf("customer with email %s: %w", email, ErrNotFound)
	case 1:
		return &customers[0], nil
	default:
		return nil, fmt.Errorf("duplicate customer email %s: %w", email, ErrDataIntegrity)
	}
}

// ExistsByEmail reports whether a customer with the email exists.
func (r *GORMCustomerRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Customer{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}
	return count > 0, nil
}

// ExistsByCPF reports whether a customer with the CPF exists.
func (r *GORMCustomerRepository) ExistsByCPF(cpf string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Customer{}).Where("cpf = ?", cpf).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check customer cpf: %w", err)
	}
	return count > 0, nil
}

// Update saves all fields of an existing customer.
func (r *GORMCustomerRepository) Update(customer *models.Customer) error {
	res := r.db.Save(customer)
	if res.Error != nil {
		return fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %s for update: %w", customer.ID, ErrNotFound)
	}
	return nil
}
