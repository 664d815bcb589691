package models

import "time"

// StaffRole is the backoffice permission group of a staff user.
type StaffRole string

const (
	RoleAdministrator StaffRole = "ADMINISTRADOR"
	RoleStockClerk    StaffRole = "ESTOQUISTA"
)

// Valid reports whether r is one of the known roles.
func (r StaffRole) Valid() bool {
	return r == RoleAdministrator || r == RoleStockClerk
}

// StaffUser is an internal backoffice user. Staff and customers are distinct
// identity types with separate login flows; they share no base type.
type StaffUser struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SequentialID uint64    `json:"sequencial_id" gorm:"uniqueIndex"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	CPF          string    `json:"cpf" gorm:"uniqueIndex;type:varchar(11)"`
	Name         string    `json:"nome"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Role         StaffRole `json:"grupo" gorm:"type:varchar(20)"`
	Active       bool      `json:"status"`
	CreatedAt    time.Time `json:"data_criacao"`
	UpdatedAt    time.Time `json:"data_ultima_alteracao"`
}

// IsAdmin reports whether the user belongs to the administrator group.
func (u *StaffUser) IsAdmin() bool {
	return u.Role == RoleAdministrator
}
