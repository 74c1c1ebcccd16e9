// Package domain contains persistence models for workshop clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClientType classifies how a client relates to the workshop.
type ClientType string

const (
	ClientTypePersonal ClientType = "PERSONAL"
	ClientTypeCompany  ClientType = "COMPANY"
	// ClientTypeWalkIn marks one-off counter sales. Walk-in clients can only
	// be invoiced for products, never services.
	ClientTypeWalkIn ClientType = "WALK_IN"
)

// Client represents a workshop customer.
type Client struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstName      string       `gorm:"not null" json:"first_name"`
	LastName       string       `gorm:"not null" json:"last_name"`
	DNI            string       `gorm:"column:dni;index" json:"dni,omitempty"`
	CommercialName string       `gorm:"" json:"commercial_name,omitempty"`
	Email          string       `gorm:"" json:"email,omitempty"`
	Phone          string       `gorm:"" json:"phone,omitempty"`
	Address        string       `gorm:"" json:"address,omitempty"`
	Province       string       `gorm:"" json:"province,omitempty"`
	Country        string       `gorm:"" json:"country,omitempty"`
	ClientType     ClientType   `gorm:"type:text;not null;default:'PERSONAL'" json:"client_type"`
	EntryDate      *time.Time   `gorm:"" json:"entry_date,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// FullName returns "first last" for display and dashboard rows.
func (c Client) FullName() string { return c.FirstName + " " + c.LastName }
