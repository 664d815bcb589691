package repositories

import (
	"fmt"
	"sort"
	"sync"

	"drogaria/internal/models"

	"github.com/google/uuid"
)

// MockStaffRepository is an in-memory implementation of StaffRepository.
type MockStaffRepository struct {
	users map[string]models.StaffUser
	mu    sync.RWMutex
}

// NewMockStaffRepository creates a new instance of MockStaffRepository.
func NewMockStaffRepository() *MockStaffRepository {
	return &MockStaffRepository{users: make(map[string]models.StaffUser)}
}

// Create adds a new staff user.
func (r *MockStaffRepository) Create(user *models.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a staff user by primary key.
func (r *MockStaffRepository) GetByID(id string) (*models.StaffUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("staff user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetBySequentialID returns a staff user by display-facing number.
func (r *MockStaffRepository) GetBySequentialID(id uint64) (*models.StaffUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.SequentialID == id {
			out := u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("staff user %d: %w", id, ErrNotFound)
}

// GetByEmail returns a staff user by email, surfacing ErrDataIntegrity when
// more than one record matches.
func (r *MockStaffRepository) GetByEmail(email string) (*models.StaffUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.StaffUser
	for _, u := range r.users {
		if u.Email == email {
			if found != nil {
				return nil, fmt.Errorf("duplicate staff email %s: %w", email, ErrDataIntegrity)
			}
			out := u
			found = &out
		}
	}
	if found == nil {
		return nil, fmt.Errorf("staff user with email %s: %w", email, ErrNotFound)
	}
	return found, nil
}

// ExistsByEmail reports whether a staff user with the email exists.
func (r *MockStaffRepository) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByCPF reports whether a staff user with the CPF exists.
func (r *MockStaffRepository) ExistsByCPF(cpf string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

// List returns all staff users ordered by sequential ID.
func (r *MockStaffRepository) List() ([]models.StaffUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.StaffUser, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].SequentialID < users[j].SequentialID
	})
	return users, nil
}

// Update modifies an existing staff user.
func (r *MockStaffRepository) Update(user *models.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("staff user %s for update: %w", user.ID, ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}
