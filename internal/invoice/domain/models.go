// Package domain contains persistence models for invoices and the
// status derivation the payment ledger drives.
package domain

import (
	"time"

	"github.com/autotech/workshop/pkg/money"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	StatusPending       InvoiceStatus = "PENDING"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusPaid          InvoiceStatus = "PAID"
)

// DeriveStatus is the only way an invoice status is ever computed: a
// pure function of the invoice total and the sum of its payments. It is
// re-evaluated after every payment mutation and every total change, so
// raising the total of a PAID invoice can move it back to
// PARTIALLY_PAID.
func DeriveStatus(total, totalPaid decimal.Decimal) InvoiceStatus {
	if totalPaid.LessThanOrEqual(decimal.Zero) {
		return StatusPending
	}
	if totalPaid.LessThan(total) {
		return StatusPartiallyPaid
	}
	return StatusPaid
}

// Invoice owns its line items outright. Items copied from an estimate
// are duplicates, never shared rows. Status is persisted for querying
// but always written through DeriveStatus.
type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClientID      snowflake.ID    `gorm:"index;not null" json:"client_id"`
	VehicleID     *snowflake.ID   `gorm:"index" json:"vehicle_id,omitempty"`
	RepairOrderID *snowflake.ID   `gorm:"index" json:"repair_order_id,omitempty"`
	EstimateID    *snowflake.ID   `gorm:"uniqueIndex" json:"estimate_id,omitempty"`
	Status        InvoiceStatus   `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	DiscountPct   decimal.Decimal `gorm:"type:numeric;not null" json:"discount_pct"`
	TaxPct        decimal.Decimal `gorm:"type:numeric;not null" json:"tax_pct"`
	Total         decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	IssuedAt      time.Time       `gorm:"not null" json:"issued_at"`
	Notes         string          `gorm:"" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	ServiceItems []ServiceItem `gorm:"foreignKey:InvoiceID" json:"service_items,omitempty"`
	ProductItems []ProductItem `gorm:"foreignKey:InvoiceID" json:"product_items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// ServiceItem is a flat-price labour charge on an invoice.
type ServiceItem struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
}

// TableName sets the database table name.
func (ServiceItem) TableName() string { return "invoice_service_items" }

// ProductItem is a quantity-priced part charge with its total stored at
// write time.
type ProductItem struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID  snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	Name       string          `gorm:"not null" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
}

// TableName sets the database table name.
func (ProductItem) TableName() string { return "invoice_product_items" }

// Breakdown recomputes the money breakdown from the loaded line items.
func (inv *Invoice) Breakdown() money.Breakdown {
	services := make([]decimal.Decimal, 0, len(inv.ServiceItems))
	for _, item := range inv.ServiceItems {
		services = append(services, item.Price)
	}
	products := make([]decimal.Decimal, 0, len(inv.ProductItems))
	for _, item := range inv.ProductItems {
		products = append(products, item.TotalPrice)
	}
	return money.ComputeTotals(money.Sum(services), money.Sum(products), inv.DiscountPct, inv.TaxPct)
}
