// Package domain contains persistence models for repair orders, the
// physical workflow record a vehicle moves through in the shop.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type OrderStatus string

const (
	StatusVehicleIntake    OrderStatus = "VEHICLE_INTAKE"
	StatusDiagnosis        OrderStatus = "DIAGNOSIS"
	StatusInRepair         OrderStatus = "IN_REPAIR"
	StatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	StatusDelivered        OrderStatus = "DELIVERED"
)

// RepairOrder tracks a vehicle through intake, diagnosis, repair and
// delivery. Its status is independent of any billing state.
type RepairOrder struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	Number        int64         `gorm:"uniqueIndex;not null" json:"number"`
	Title         string        `gorm:"not null" json:"title"`
	ClientID      snowflake.ID  `gorm:"index;not null" json:"client_id"`
	VehicleID     snowflake.ID  `gorm:"index;not null" json:"vehicle_id"`
	AppointmentID *snowflake.ID `gorm:"index" json:"appointment_id,omitempty"`
	Reason        string        `gorm:"" json:"reason,omitempty"`
	ClientSource  string        `gorm:"" json:"client_source,omitempty"`
	Notes         string        `gorm:"" json:"notes,omitempty"`
	Status        OrderStatus   `gorm:"type:text;not null;default:'VEHICLE_INTAKE'" json:"status"`
	EntryDate     time.Time     `gorm:"not null" json:"entry_date"`
	DeliveredAt   *time.Time    `gorm:"" json:"delivered_at,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Employees []OrderEmployee `gorm:"foreignKey:RepairOrderID" json:"employees,omitempty"`
}

// TableName sets the database table name.
func (RepairOrder) TableName() string { return "repair_orders" }

// OrderEmployee joins a repair order to an assigned employee.
type OrderEmployee struct {
	RepairOrderID snowflake.ID `gorm:"primaryKey" json:"repair_order_id"`
	EmployeeID    snowflake.ID `gorm:"primaryKey" json:"employee_id"`
	AssignedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"assigned_at"`
}

// TableName sets the database table name.
func (OrderEmployee) TableName() string { return "repair_order_employees" }

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusVehicleIntake, StatusDiagnosis, StatusInRepair,
		StatusReadyForDelivery, StatusDelivered:
		return true
	}
	return false
}

// IntakeStatus reports whether s is one of the two intake states that
// an order can never transition back into.
func IntakeStatus(s OrderStatus) bool {
	return s == StatusVehicleIntake || s == StatusDiagnosis
}
