package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/pkg/viacep"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CustomerService handles business logic for customer accounts.
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	cepClient    viacep.Client
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repositories.CustomerRepository, cepClient viacep.Client) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		cepClient:    cepClient,
	}
}

// Registration carries the self-service signup form.
type Registration struct {
	Name            string
	CPF             string
	Email           string
	BirthDate       string
	Gender          string
	Password        string
	PasswordConfirm string
	PostalCode      string
	Number          string
	Complement      string
}

// Register validates the signup form, resolves the billing address from the
// CEP and creates the customer. The delivery address is cloned from the
// billing address and marked default.
func (s *CustomerService) Register(ctx context.Context, reg Registration) (*models.Customer, error) {
	if !ValidFullName(reg.Name) {
		return nil, RuleError("Nome deve ter pelo menos 2 palavras com 3 letras cada")
	}
	if !ValidCPF(reg.CPF) {
		return nil, RuleError("CPF inválido")
	}
	cpf := OnlyDigits(reg.CPF)
	if exists, err := s.customerRepo.ExistsByCPF(cpf); err != nil {
		return nil, fmt.Errorf("failed to check CPF: %w", err)
	} else if exists {
		return nil, RuleError("CPF já cadastrado")
	}
	email := strings.TrimSpace(strings.ToLower(reg.Email))
	if !ValidEmail(email) {
		return nil, RuleError("Email inválido")
	}
	if exists, err := s.customerRepo.ExistsByEmail(email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, RuleError("Email já cadastrado")
	}
	birthDate, ok := ParseBirthDate(reg.BirthDate)
	if !ok {
		return nil, RuleError("Data de nascimento inválida")
	}
	if !ValidGender(reg.Gender) {
		return nil, RuleError("Gênero inválido")
	}
	if reg.Password == "" {
		return nil, RuleError("Senha é obrigatória")
	}
	if reg.Password != reg.PasswordConfirm {
		return nil, RuleError("Senhas não conferem")
	}

	billing, err := s.resolveAddress(ctx, reg.PostalCode, reg.Number, reg.Complement)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	delivery := *billing
	delivery.ID = uuid.New().String()
	delivery.IsDefault = true

	customer := &models.Customer{
		ID:                uuid.New().String(),
		Email:             email,
		CPF:               cpf,
		Name:              strings.TrimSpace(reg.Name),
		BirthDate:         birthDate,
		Gender:            strings.ToLower(strings.TrimSpace(reg.Gender)),
		PasswordHash:      string(hash),
		BillingAddress:    *billing,
		DeliveryAddresses: []models.Address{delivery},
		Active:            true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.customerRepo.Create(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// resolveAddress looks the CEP up and merges in the customer-supplied number
// and complement.
func (s *CustomerService) resolveAddress(ctx context.Context, cep, number, complement string) (*models.Address, error) {
	resolved, err := s.cepClient.Lookup(ctx, cep)
	if err != nil {
		return nil, RuleError("CEP inválido ou não encontrado")
	}
	if resolved.Street == "" || resolved.City == "" || resolved.State == "" {
		return nil, RuleError("Dados do endereço incompletos")
	}
	return &models.Address{
		ID:           uuid.New().String(),
		PostalCode:   resolved.PostalCode,
		Street:       resolved.Street,
		Number:       strings.TrimSpace(number),
		Complement:   strings.TrimSpace(complement),
		Neighborhood: resolved.Neighborhood,
		City:         resolved.City,
		State:        resolved.State,
	}, nil
}

// Authenticate checks the customer credentials. Unknown email, wrong
// password and an inactive account are deliberately indistinguishable.
func (s *CustomerService) Authenticate(email, password string) (*models.Customer, error) {
	const denied = RuleError("Email ou senha inválidos, ou cliente inativo")

	customer, err := s.customerRepo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, denied
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if !customer.Active {
		return nil, denied
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return nil, denied
	}
	return customer, nil
}

// GetByID returns a customer account.
func (s *CustomerService) GetByID(id string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, RuleError("Cliente não encontrado")
		}
		return nil, err
	}
	return customer, nil
}

// UpdateProfile changes name, birth date and gender. Email and CPF are
// immutable after registration.
func (s *CustomerService) UpdateProfile(id, name, birthDate, gender string) error {
	customer, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !ValidFullName(name) {
		return RuleError("Nome deve ter pelo menos 2 palavras com 3 letras cada")
	}
	parsed, ok := ParseBirthDate(birthDate)
	if !ok {
		return RuleError("Data de nascimento inválida")
	}
	if !ValidGender(gender) {
		return RuleError("Gênero inválido")
	}

	customer.Name = strings.TrimSpace(name)
	customer.BirthDate = parsed
	customer.Gender = strings.ToLower(strings.TrimSpace(gender))
	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	return nil
}

// ChangePassword sets a new password after confirmation.
func (s *CustomerService) ChangePassword(id, password, confirm string) error {
	customer, err := s.GetByID(id)
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
	customer.PasswordHash = string(hash)
	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	return nil
}

// AddAddress resolves and appends a delivery address. When the new address
// is default, the flag is cleared from the others.
func (s *CustomerService) AddAddress(ctx context.Context, id, cep, number, complement string, isDefault bool) (*models.Address, error) {
	customer, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	address, err := s.resolveAddress(ctx, cep, number, complement)
	if err != nil {
		return nil, err
	}
	address.IsDefault = isDefault

	if isDefault {
		for i := range customer.DeliveryAddresses {
			customer.DeliveryAddresses[i].IsDefault = false
		}
	}
	customer.DeliveryAddresses = append(customer.DeliveryAddresses, *address)
	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	return address, nil
}

// SetDefaultAddress marks one delivery address default and clears the flag
// from every other.
func (s *CustomerService) SetDefaultAddress(id, addressID string) error {
	customer, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if len(customer.DeliveryAddresses) == 0 {
		return RuleError("Cliente não possui endereços de entrega")
	}

	found := false
	for i := range customer.DeliveryAddresses {
		if customer.DeliveryAddresses[i].ID == addressID {
			customer.DeliveryAddresses[i].IsDefault = true
			found = true
		} else {
			customer.DeliveryAddresses[i].IsDefault = false
		}
	}
	if !found {
		return RuleError("Endereço não encontrado")
	}

	customer.UpdatedAt = time.Now()
	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	return nil
}
