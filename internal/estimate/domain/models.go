// Package domain contains persistence models for estimates: pre-work
// quotations a client approves or rejects before billing.
package domain

import (
	"time"

	"github.com/autotech/workshop/pkg/money"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type EstimateStatus string

const (
	StatusPending  EstimateStatus = "PENDING"
	StatusAccepted EstimateStatus = "ACCEPTED"
	StatusRejected EstimateStatus = "REJECTED"
)

// Estimate carries its own line items and a persisted total that is
// recomputed on every mutation of items, discount or tax.
type Estimate struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClientID      snowflake.ID    `gorm:"index;not null" json:"client_id"`
	VehicleID     snowflake.ID    `gorm:"index;not null" json:"vehicle_id"`
	RepairOrderID *snowflake.ID   `gorm:"index" json:"repair_order_id,omitempty"`
	Status        EstimateStatus  `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	DiscountPct   decimal.Decimal `gorm:"type:numeric;not null" json:"discount_pct"`
	TaxPct        decimal.Decimal `gorm:"type:numeric;not null" json:"tax_pct"`
	Total         decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	Notes         string          `gorm:"" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	ServiceItems []ServiceItem `gorm:"foreignKey:EstimateID" json:"service_items,omitempty"`
	ProductItems []ProductItem `gorm:"foreignKey:EstimateID" json:"product_items,omitempty"`
}

// TableName sets the database table name.
func (Estimate) TableName() string { return "estimates" }

// ServiceItem is a flat-price labour charge on an estimate.
type ServiceItem struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	EstimateID snowflake.ID    `gorm:"index;not null" json:"estimate_id"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
}

// TableName sets the database table name.
func (ServiceItem) TableName() string { return "estimate_service_items" }

// ProductItem is a quantity-priced part charge on an estimate. The
// total is stored at write time, not recomputed on read.
type ProductItem struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	EstimateID snowflake.ID    `gorm:"index;not null" json:"estimate_id"`
	Name       string          `gorm:"not null" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
}

// TableName sets the database table name.
func (ProductItem) TableName() string { return "estimate_product_items" }

// Breakdown recomputes the money breakdown from the loaded line items.
func (e *Estimate) Breakdown() money.Breakdown {
	services := make([]decimal.Decimal, 0, len(e.ServiceItems))
	for _, item := range e.ServiceItems {
		services = append(services, item.Price)
	}
	products := make([]decimal.Decimal, 0, len(e.ProductItems))
	for _, item := range e.ProductItems {
		products = append(products, item.TotalPrice)
	}
	return money.ComputeTotals(money.Sum(services), money.Sum(products), e.DiscountPct, e.TaxPct)
}
