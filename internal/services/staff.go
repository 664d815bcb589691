package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// StaffService handles business logic for backoffice users.
type StaffService struct {
	staffRepo repositories.StaffRepository
	sequences repositories.SequenceRepository
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo repositories.StaffRepository, sequences repositories.SequenceRepository) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		sequences: sequences,
	}
}

// Authenticate checks staff credentials. Unknown email, wrong password and
// an inactive account are indistinguishable to the caller.
func (s *StaffService) Authenticate(email, password string) (*models.StaffUser, error) {
	const denied = RuleError("Email ou senha inválidos, ou usuário inativo")

	user, err := s.staffRepo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, denied
		}
		return nil, fmt.Errorf("failed to look up staff user: %w", err)
	}
	if !user.Active {
		return nil, denied
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, denied
	}
	return user, nil
}

// GetByID returns a staff user.
func (s *StaffService) GetByID(id string) (*models.StaffUser, error) {
	user, err := s.staffRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, RuleError("Usuário não encontrado")
		}
		return nil, err
	}
	return user, nil
}

// GetBySequentialID returns a staff user by display number.
func (s *StaffService) GetBySequentialID(sequentialID uint64) (*models.StaffUser, error) {
	user, err := s.staffRepo.GetBySequentialID(sequentialID)
	if err != nil {
		if isNotFound(err) {
			return nil, RuleError("Usuário não encontrado")
		}
		return nil, err
	}
	return user, nil
}

// List returns every staff user ordered by display number. Users stored
// without one (legacy data) get the next number assigned on the way out.
func (s *StaffService) List() ([]models.StaffUser, error) {
	users, err := s.staffRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list staff users: %w", err)
	}
	for i := range users {
		if users[i].SequentialID != 0 {
			continue
		}
		next, err := s.sequences.Next(models.SequenceStaff)
		if err != nil {
			return nil, fmt.Errorf("failed to backfill staff number: %w", err)
		}
		users[i].SequentialID = next
		if err := s.staffRepo.Update(&users[i]); err != nil {
			return nil, fmt.Errorf("failed to backfill staff user %s: %w", users[i].ID, err)
		}
	}
	return users, nil
}

// Create validates and stores a new staff user (administrator path).
func (s *StaffService) Create(name, cpf, email string, role models.StaffRole, password, confirm string) (*models.StaffUser, error) {
	if strings.TrimSpace(name) == "" {
		return nil, RuleError("Nome é obrigatório")
	}
	if !ValidCPF(cpf) {
		return nil, RuleError("CPF inválido")
	}
	cpfDigits := OnlyDigits(cpf)
	if exists, err := s.staffRepo.ExistsByCPF(cpfDigits); err != nil {
		return nil, fmt.Errorf("failed to check CPF: %w", err)
	} else if exists {
		return nil, RuleError("CPF já cadastrado")
	}
	emailNorm := strings.TrimSpace(strings.ToLower(email))
	if !ValidEmail(emailNorm) {
		return nil, RuleError("Email inválido")
	}
	if exists, err := s.staffRepo.ExistsByEmail(emailNorm); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, RuleError("Email já cadastrado")
	}
	if password == "" {
		return nil, RuleError("Senha é obrigatória")
	}
	if password != confirm {
		return nil, RuleError("Senhas não conferem")
	}
	if !role.Valid() {
		return nil, RuleError("Grupo é obrigatório")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	sequentialID, err := s.sequences.Next(models.SequenceStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate staff number: %w", err)
	}

	user := &models.StaffUser{
		ID:           uuid.New().String(),
		SequentialID: sequentialID,
		Email:        emailNorm,
		CPF:          cpfDigits,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.staffRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}
	return user, nil
}

// Update changes name, CPF and role. Email is immutable.
func (s *StaffService) Update(sequentialID uint64, name, cpf string, role models.StaffRole) error {
	user, err := s.GetBySequentialID(sequentialID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return RuleError("Nome é obrigatório")
	}
	if !ValidCPF(cpf) {
		return RuleError("CPF inválido")
	}
	cpfDigits := OnlyDigits(cpf)
	if cpfDigits != user.CPF {
		if exists, err := s.staffRepo.ExistsByCPF(cpfDigits); err != nil {
			return fmt.Errorf("failed to check CPF: %w", err)
		} else if exists {
			return RuleError("CPF já cadastrado para outro usuário")
		}
	}
	if !role.Valid() {
		return RuleError("Grupo é obrigatório")
	}

	user.Name = strings.TrimSpace(name)
	user.CPF = cpfDigits
	user.Role = role
	user.UpdatedAt = time.Now()

	if err := s.staffRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update staff user %d: %w", sequentialID, err)
	}
	return nil
}

// ChangePassword resets a staff user's password.
func (s *StaffService) ChangePassword(sequentialID uint64, password, confirm string) error {
	user, err := s.GetBySequentialID(sequentialID)
	if err != nil {
		return err
	}
	if password == "" {
		return RuleError("Nova senha é obrigatória")
	}
	if password != confirm {
		return RuleError("Senhas não conferem")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()

	if err := s.staffRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update staff user %d: %w", sequentialID, err)
	}
	return nil
}

// ToggleActive flips the active flag and reports the resulting state.
func (s *StaffService) ToggleActive(sequentialID uint64) (bool, error) {
	user, err := s.GetBySequentialID(sequentialID)
	if err != nil {
		return false, err
	}

	user.Active = !user.Active
	user.UpdatedAt = time.Now()

	if err := s.staffRepo.Update(user); err != nil {
		return false, fmt.Errorf("failed to update staff user %d: %w", sequentialID, err)
	}
	return user.Active, nil
}

// EnsureSeedUsers guarantees the default administrator and stock clerk
// accounts exist. An administrator stored without role or display number is
// recreated from scratch.
func (s *StaffService) EnsureSeedUsers() error {
	admin, err := s.staffRepo.GetByEmail("admin@drogaria.com")
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}
	if admin != nil && (admin.Role == "" || admin.SequentialID == 0) {
		log.Printf("seed admin %s has incomplete data, recreating", admin.ID)
		admin.Role = models.RoleAdministrator
		if admin.SequentialID == 0 {
			next, err := s.sequences.Next(models.SequenceStaff)
			if err != nil {
				return fmt.Errorf("failed to allocate staff number: %w", err)
			}
			admin.SequentialID = next
		}
		if err := s.staffRepo.Update(admin); err != nil {
			return fmt.Errorf("failed to repair seed admin: %w", err)
		}
	}
	if admin == nil {
		if _, err := s.Create("Administrador Sistema", "11144477735",
			"admin@drogaria.com", models.RoleAdministrator, "admin123", "admin123"); err != nil {
			return fmt.Errorf("failed to create seed admin: %w", err)
		}
		log.Println("seed admin created: admin@drogaria.com")
	}

	exists, err := s.staffRepo.ExistsByEmail("estoquista@drogaria.com")
	if err != nil {
		return fmt.Errorf("failed to look up seed stock clerk: %w", err)
	}
	if !exists {
		if _, err := s.Create("João Estoquista", "38783825029",
			"estoquista@drogaria.com", models.RoleStockClerk, "esto123", "esto123"); err != nil {
			return fmt.Errorf("failed to create seed stock clerk: %w", err)
		}
		log.Println("seed stock clerk created: estoquista@drogaria.com")
	}
	return nil
}
