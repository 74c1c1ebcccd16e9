// Package domain contains persistence models for the payment ledger
// and its append-only audit trail.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentType string

const (
	PaymentTypeCash        PaymentType = "CASH"
	PaymentTypeBankAccount PaymentType = "BANK_ACCOUNT"
)

type AuditAction string

const (
	AuditActionCreated  AuditAction = "CREATED"
	AuditActionModified AuditAction = "MODIFIED"
	AuditActionDeleted  AuditAction = "DELETED"
)

// Payment is one ledger entry against an invoice. Rows are only ever
// written through the ledger service so the invoice status stays in
// step with the sum of its payments.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	PayerName     string          `gorm:"" json:"payer_name,omitempty"`
	PaymentType   PaymentType     `gorm:"type:text;not null" json:"payment_type"`
	BankAccountID *snowflake.ID   `gorm:"index" json:"bank_account_id,omitempty"`
	EmployeeID    *snowflake.ID   `gorm:"index" json:"employee_id,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// PaymentAuditLog records every ledger mutation with before/after
// snapshots. Rows are never updated or deleted, and they survive the
// payment they describe.
type PaymentAuditLog struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	PaymentID   snowflake.ID      `gorm:"index;not null" json:"payment_id"`
	InvoiceID   snowflake.ID      `gorm:"index;not null" json:"invoice_id"`
	Action      AuditAction       `gorm:"type:text;not null" json:"action"`
	OldData     datatypes.JSONMap `gorm:"" json:"old_data,omitempty"`
	NewData     datatypes.JSONMap `gorm:"" json:"new_data,omitempty"`
	PerformedBy *snowflake.ID     `gorm:"index" json:"performed_by,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PaymentAuditLog) TableName() string { return "payment_audit_logs" }

// Snapshot flattens the payment for an audit row.
func (p Payment) Snapshot() datatypes.JSONMap {
	snapshot := datatypes.JSONMap{
		"id":           p.ID.String(),
		"invoice_id":   p.InvoiceID.String(),
		"payment_date": p.PaymentDate.Format(time.RFC3339),
		"amount":       p.Amount.StringFixed(2),
		"payer_name":   p.PayerName,
		"payment_type": string(p.PaymentType),
	}
	if p.BankAccountID != nil {
		snapshot["bank_account_id"] = p.BankAccountID.String()
	}
	if p.EmployeeID != nil {
		snapshot["employee_id"] = p.EmployeeID.String()
	}
	return snapshot
}

// ValidType reports whether t is a known payment type.
func ValidType(t PaymentType) bool {
	return t == PaymentTypeCash || t == PaymentTypeBankAccount
}
