// Package domain contains persistence models for shop bank accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BankAccount is a shop-owned account that non-cash payments reference.
type BankAccount struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Alias         string       `gorm:"not null" json:"alias"`
	BankName      string       `gorm:"not null" json:"bank_name"`
	AccountNumber string       `gorm:"not null" json:"account_number"`
	Holder        string       `gorm:"" json:"holder,omitempty"`
	Active        bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BankAccount) TableName() string { return "bank_accounts" }
