package services_test

import (
	"testing"

	"drogaria/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestValidCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{"valid digits", "11144477735", true},
		{"valid formatted", "111.444.777-35", true},
		{"valid second seed", "38783825029", true},
		{"wrong check digit", "11144477734", false},
		{"all same digits", "11111111111", false},
		{"too short", "1114447773", false},
		{"too long", "111444777350", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, services.ValidCPF(tt.cpf))
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, services.ValidEmail("cliente@exemplo.com.br"))
	assert.True(t, services.ValidEmail("a+b.c-d@sub.dominio.io"))
	assert.False(t, services.ValidEmail("sem-arroba.com"))
	assert.False(t, services.ValidEmail("cliente@dominio"))
	assert.False(t, services.ValidEmail(""))
}

func TestValidFullName(t *testing.T) {
	assert.True(t, services.ValidFullName("João Silva"))
	assert.True(t, services.ValidFullName("Ana Maria Braga"))
	assert.False(t, services.ValidFullName("João"))
	assert.False(t, services.ValidFullName("João Ab"))
	assert.False(t, services.ValidFullName("   "))
}

func TestParseBirthDate(t *testing.T) {
	parsed, ok := services.ParseBirthDate("1990-05-20")
	assert.True(t, ok)
	assert.Equal(t, 1990, parsed.Year())

	_, ok = services.ParseBirthDate("20/05/1990")
	assert.False(t, ok)

	_, ok = services.ParseBirthDate("3000-01-01")
	assert.False(t, ok)

	_, ok = services.ParseBirthDate("")
	assert.False(t, ok)
}

func TestValidGender(t *testing.T) {
	assert.True(t, services.ValidGender("masculino"))
	assert.True(t, services.ValidGender("Feminino"))
	assert.True(t, services.ValidGender("outro"))
	assert.True(t, services.ValidGender("não informado"))
	assert.False(t, services.ValidGender("qualquer"))
	assert.False(t, services.ValidGender(""))
}

func TestNewValidatorRegistersCPFTag(t *testing.T) {
	v := services.NewValidator()

	type form struct {
		CPF string `validate:"required,cpf"`
	}

	assert.NoError(t, v.Struct(form{CPF: "11144477735"}))
	assert.Error(t, v.Struct(form{CPF: "11111111111"}))
}
