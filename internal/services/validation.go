package services

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// NewValidator returns a validator with the custom "cpf" tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidCPF(fl.Field().String())
	})
	return v
}

// OnlyDigits strips every non-digit rune from s.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// ValidCPF checks the CPF check digits (módulo 11). Formatting characters
// are stripped first; the result must have exactly 11 digits and repeated
// sequences like 111.111.111-11 are rejected.
func ValidCPF(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	d := make([]int, 11)
	for i, r := range digits {
		d[i] = int(r - '0')
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += d[i] * (10 - i)
	}
	check := (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	if check != d[9] {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += d[i] * (11 - i)
	}
	check = (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	return check == d[10]
}

// ValidEmail checks the address against the account-registration pattern.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidFullName requires at least two words of at least three letters each.
func ValidFullName(name string) bool {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len([]rune(w)) < 3 {
			return false
		}
	}
	return true
}

// ParseBirthDate parses a yyyy-mm-dd date and rejects dates in the future.
func ParseBirthDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	if t.After(time.Now()) {
		return time.Time{}, false
	}
	return t, true
}

// ValidGender checks the value against the accepted set, case-insensitively.
func ValidGender(g string) bool {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "masculino", "feminino", "outro", "não informado":
		return true
	}
	return false
}
