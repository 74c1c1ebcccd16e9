// Package domain contains persistence models for vehicle inspections.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ItemStatus string

const (
	ItemStatusOK      ItemStatus = "OK"
	ItemStatusCheck   ItemStatus = "CHECK"
	ItemStatusProblem ItemStatus = "PROBLEM"
)

// Inspection is a checklist recorded against a repair order during
// diagnosis.
type Inspection struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	RepairOrderID snowflake.ID  `gorm:"index;not null" json:"repair_order_id"`
	EmployeeID    *snowflake.ID `gorm:"index" json:"employee_id,omitempty"`
	PerformedAt   time.Time     `gorm:"not null" json:"performed_at"`
	Notes         string        `gorm:"" json:"notes,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InspectionItem `gorm:"foreignKey:InspectionID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Inspection) TableName() string { return "inspections" }

// InspectionItem is a single checklist entry. CHECK and PROBLEM items
// surface as issues on the estimate detail.
type InspectionItem struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	InspectionID snowflake.ID `gorm:"index;not null" json:"inspection_id"`
	Name         string       `gorm:"not null" json:"name"`
	Status       ItemStatus   `gorm:"type:text;not null" json:"status"`
	Comment      string       `gorm:"" json:"comment,omitempty"`
}

// TableName sets the database table name.
func (InspectionItem) TableName() string { return "inspection_items" }

// IsIssue reports whether the item needs attention.
func (i InspectionItem) IsIssue() bool {
	return i.Status == ItemStatusCheck || i.Status == ItemStatusProblem
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusOK, ItemStatusCheck, ItemStatusProblem:
		return true
	}
	return false
}
