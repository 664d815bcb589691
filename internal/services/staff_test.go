package services_test

import (
	"testing"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/internal/services"

	"github.com/stretchr/testify/assert"
)

func newStaffFixture() (*services.StaffService, *repositories.MockStaffRepository) {
	repo := repositories.NewMockStaffRepository()
	return services.NewStaffService(repo, repositories.NewMockSequenceRepository()), repo
}

func TestStaff_CreateAndAuthenticate(t *testing.T) {
	svc, _ := newStaffFixture()

	user, err := svc.Create("Carlos Admin", "111.444.777-35", "carlos@drogaria.com",
		models.RoleAdministrator, "senha123", "senha123")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), user.SequentialID)
	assert.Equal(t, "11144477735", user.CPF)
	assert.True(t, user.Active)
	assert.True(t, user.IsAdmin())

	authenticated, err := svc.Authenticate("carlos@drogaria.com", "senha123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = svc.Authenticate("carlos@drogaria.com", "errada")
	assert.EqualError(t, err, "Email ou senha inválidos, ou usuário inativo")
}

func TestStaff_CreateValidations(t *testing.T) {
	svc, _ := newStaffFixture()

	_, err := svc.Create("", "11144477735", "a@b.com", models.RoleStockClerk, "s", "s")
	assert.EqualError(t, err, "Nome é obrigatório")

	_, err = svc.Create("Nome Qualquer", "11111111111", "a@b.com", models.RoleStockClerk, "s", "s")
	assert.EqualError(t, err, "CPF inválido")

	_, err = svc.Create("Nome Qualquer", "11144477735", "sem-arroba", models.RoleStockClerk, "s", "s")
	assert.EqualError(t, err, "Email inválido")

	_, err = svc.Create("Nome Qualquer", "11144477735", "a@b.com", models.RoleStockClerk, "", "")
	assert.EqualError(t, err, "Senha é obrigatória")

	_, err = svc.Create("Nome Qualquer", "11144477735", "a@b.com", models.RoleStockClerk, "s", "outra")
	assert.EqualError(t, err, "Senhas não conferem")

	_, err = svc.Create("Nome Qualquer", "11144477735", "a@b.com", models.StaffRole("GERENTE"), "s", "s")
	assert.EqualError(t, err, "Grupo é obrigatório")
}

func TestStaff_CreateRejectsDuplicates(t *testing.T) {
	svc, _ := newStaffFixture()

	_, err := svc.Create("Carlos Admin", "11144477735", "carlos@drogaria.com",
		models.RoleAdministrator, "senha123", "senha123")
	assert.NoError(t, err)

	_, err = svc.Create("Outro Nome", "11144477735", "outro@drogaria.com",
		models.RoleStockClerk, "senha123", "senha123")
	assert.EqualError(t, err, "CPF já cadastrado")

	_, err = svc.Create("Outro Nome", "38783825029", "carlos@drogaria.com",
		models.RoleStockClerk, "senha123", "senha123")
	assert.EqualError(t, err, "Email já cadastrado")
}

func TestStaff_UpdateKeepsEmail(t *testing.T) {
	svc, repo := newStaffFixture()

	user, err := svc.Create("Carlos Admin", "11144477735", "carlos@drogaria.com",
		models.RoleAdministrator, "senha123", "senha123")
	assert.NoError(t, err)

	err = svc.Update(user.SequentialID, "Carlos Silva", "387.838.250-29", models.RoleStockClerk)
	assert.NoError(t, err)

	stored, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Carlos Silva", stored.Name)
	assert.Equal(t, "38783825029", stored.CPF)
	assert.Equal(t, models.RoleStockClerk, stored.Role)
	assert.Equal(t, "carlos@drogaria.com", stored.Email)
}

func TestStaff_UpdateRejectsTakenCPF(t *testing.T) {
	svc, _ := newStaffFixture()

	_, err := svc.Create("Carlos Admin", "11144477735", "carlos@drogaria.com",
		models.RoleAdministrator, "senha123", "senha123")
	assert.NoError(t, err)
	second, err := svc.Create("Joana Estoque", "38783825029", "joana@drogaria.com",
		models.RoleStockClerk, "senha123", "senha123")
	assert.NoError(t, err)

	err = svc.Update(second.SequentialID, "Joana Estoque", "11144477735", models.RoleStockClerk)
	assert.EqualError(t, err, "CPF já cadastrado para outro usuário")

	// keeping her own CPF is fine
	err = svc.Update(second.SequentialID, "Joana Estoque", "38783825029", models.RoleStockClerk)
	assert.NoError(t, err)
}

func TestStaff_ToggleActiveBlocksLogin(t *testing.T) {
	svc, _ := newStaffFixture()

	user, err := svc.Create("Carlos Admin", "11144477735", "carlos@drogaria.com",
		models.RoleAdministrator, "senha123", "senha123")
	assert.NoError(t, err)

	active, err := svc.ToggleActive(user.SequentialID)
	assert.NoError(t, err)
	assert.False(t, active)

	_, err = svc.Authenticate("carlos@drogaria.com", "senha123")
	assert.EqualError(t, err, "Email ou senha inválidos, ou usuário inativo")

	active, err = svc.ToggleActive(user.SequentialID)
	assert.NoError(t, err)
	assert.True(t, active)
}

func TestStaff_ListBackfillsSequentialIDs(t *testing.T) {
	svc, repo := newStaffFixture()

	// legacy record persisted without a display number
	legacy := &models.StaffUser{
		Email:  "legado@drogaria.com",
		CPF:    "11144477735",
		Name:   "Conta Legada",
		Role:   models.RoleStockClerk,
		Active: true,
	}
	assert.NoError(t, repo.Create(legacy))

	users, err := svc.List()
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.NotZero(t, users[0].SequentialID)

	stored, err := repo.GetByID(legacy.ID)
	assert.NoError(t, err)
	assert.Equal(t, users[0].SequentialID, stored.SequentialID)
}

func TestStaff_EnsureSeedUsers(t *testing.T) {
	svc, repo := newStaffFixture()

	assert.NoError(t, svc.EnsureSeedUsers())

	admin, err := repo.GetByEmail("admin@drogaria.com")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, admin.Role)
	assert.Equal(t, "11144477735", admin.CPF)

	clerk, err := repo.GetByEmail("estoquista@drogaria.com")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStockClerk, clerk.Role)
	assert.Equal(t, "38783825029", clerk.CPF)

	// idempotent on a second boot
	assert.NoError(t, svc.EnsureSeedUsers())
	users, err := svc.List()
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	// both seed passwords work
	_, err = svc.Authenticate("admin@drogaria.com", "admin123")
	assert.NoError(t, err)
	_, err = svc.Authenticate("estoquista@drogaria.com", "esto123")
	assert.NoError(t, err)
}
