package repositories

import (
	"errors"
	"fmt"

	"drogaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStaffRepository is a GORM implementation of StaffRepository.
type GORMStaffRepository struct {
	db *gorm.DB
}

// NewGORMStaffRepository creates a new instance of GORMStaffRepository.
func NewGORMStaffRepository(db *gorm.DB) *GORMStaffRepository {
	return &GORMStaffRepository{db: db}
}

// Create inserts a new staff user.
func (r *GORMStaffRepository) Create(user *models.StaffUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	return nil
}

// GetByID retrieves a staff user by primary key.
func (r *GORMStaffRepository) GetByID(id string) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("staff user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff user %s: %w", id, err)
	}
	return &user, nil
}

// GetBySequentialID retrieves a staff user by display-facing number.
func (r *GORMStaffRepository) GetBySequentialID(id uint64) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.First(&user, "sequential_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("staff user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a staff user by email, surfacing ErrDataIntegrity if
// legacy duplicates exist despite the unique index.
func (r *GORMStaffRepository) GetByEmail(email string) (*models.StaffUser, error) {
	var users []models.StaffUser
	if err := r.db.Where("email = ?", email).Limit(2).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get staff user by email: %w", err)
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("staff user with email %s: %w", email, ErrNotFound)
	case 1:
		return &users[0], nil
	default:
		return nil, fmt.Errorf("duplicate staff email %s: %w", email, ErrDataIntegrity)
	}
}

// ExistsByEmail reports whether a staff user with the email exists.
func (r *GORMStaffRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.StaffUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check staff email: %w", err)
	}
	return count > 0, nil
}

// ExistsByCPF reports whether a staff user with the CPF exists.
func (r *GORMStaffRepository) ExistsByCPF(cpf string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.StaffUser{}).Where("cpf = ?", cpf).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check staff cpf: %w", err)
	}
	return count > 0, nil
}

// List retrieves all staff users ordered by sequential ID.
func (r *GORMStaffRepository) List() ([]models.StaffUser, error) {
	var users []models.StaffUser
	if err := r.db.Order("sequential_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff users: %w", err)
	}
	return users, nil
}

// Update saves all fields of an existing staff user.
func (r *GORMStaffRepository) Update(user *models.StaffUser) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update staff user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff user %s for update: %w", user.ID, ErrNotFound)
	}
	return nil
}
