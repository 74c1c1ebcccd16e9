// Package domain contains persistence models for workshop appointments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a scheduled visit for a client vehicle.
type Appointment struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID    snowflake.ID      `gorm:"index;not null" json:"client_id"`
	VehicleID   *snowflake.ID     `gorm:"index" json:"vehicle_id,omitempty"`
	ScheduledAt time.Time         `gorm:"index;not null" json:"scheduled_at"`
	EndsAt      *time.Time        `gorm:"" json:"ends_at,omitempty"`
	Reason      string            `gorm:"" json:"reason,omitempty"`
	Notes       string            `gorm:"" json:"notes,omitempty"`
	Status      AppointmentStatus `gorm:"type:text;not null;default:'SCHEDULED'" json:"status"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Appointment) TableName() string { return "appointments" }

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}
