package entity

import "time"

// Roles de usuario. La autorización llega resuelta al núcleo: el middleware
// valida el token y los handlers deciden con el rol, nunca el dominio.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
	RoleCustomer = "customer"
)

// User representa un usuario de la empresa (empleado o cliente).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsBlocked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
