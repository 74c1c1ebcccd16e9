// Package domain contains persistence models for client vehicles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vehicle represents a client's vehicle.
type Vehicle struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID      snowflake.ID `gorm:"not null;index" json:"client_id"`
	Plate         string       `gorm:"not null;uniqueIndex" json:"plate"`
	ChassisNumber string       `gorm:"" json:"chassis_number,omitempty"`
	EngineNumber  string       `gorm:"" json:"engine_number,omitempty"`
	Brand         string       `gorm:"not null" json:"brand"`
	Model         string       `gorm:"not null" json:"model"`
	Year          int          `gorm:"" json:"year,omitempty"`
	VehicleType   string       `gorm:"" json:"vehicle_type,omitempty"`
	Observations  string       `gorm:"type:text" json:"observations,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Vehicle) TableName() string { return "vehicles" }
