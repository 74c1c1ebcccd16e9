// Package domain contains persistence models for workshop employees.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive EmployeeStatus = "INACTIVE"
)

// Employee represents a workshop employee (mechanic, admin staff).
type Employee struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"not null" json:"first_name"`
	LastName  string         `gorm:"not null" json:"last_name"`
	DNI       string         `gorm:"column:dni" json:"dni,omitempty"`
	Email     string         `gorm:"" json:"email,omitempty"`
	Phone     string         `gorm:"" json:"phone,omitempty"`
	Address   string         `gorm:"" json:"address,omitempty"`
	City      string         `gorm:"" json:"city,omitempty"`
	Province  string         `gorm:"" json:"province,omitempty"`
	Country   string         `gorm:"" json:"country,omitempty"`
	EntryDate *time.Time     `gorm:"" json:"entry_date,omitempty"`
	Status    EmployeeStatus `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "employees" }

// FullName returns "first last".
func (e Employee) FullName() string { return e.FirstName + " " + e.LastName }
