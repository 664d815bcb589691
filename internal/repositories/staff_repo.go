package repositories

import "drogaria/internal/models"

// StaffRepository defines the interface for backoffice user data access.
type StaffRepository interface {
	Create(user *models.StaffUser) error
	GetByID(id string) (*models.StaffUser, error)
	GetBySequentialID(id uint64) (*models.StaffUser, error)
	// GetByEmail must match at most one record; more than one wraps
	// ErrDataIntegrity.
	GetByEmail(email string) (*models.StaffUser, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByCPF(cpf string) (bool, error)
	List() ([]models.StaffUser, error)
	Update(user *models.StaffUser) error
}
