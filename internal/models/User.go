package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
	RoleCustomer = "customer"
)

// User is a login account. Drivers are users with Role == RoleDriver.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      string    `gorm:"column:rol;size:20;not null;index" json:"rol"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }

// NormalizeRole maps the accepted spellings (including the legacy Spanish
// ones stored by older deployments) onto the role constants. It returns ""
// for anything else.
func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrador":
		return RoleAdmin
	case "driver", "transportista":
		return RoleDriver
	case "customer", "cliente":
		return RoleCustomer
	default:
		return ""
	}
}
