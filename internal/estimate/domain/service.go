package domain

import (
	"context"
	"errors"

	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type ServiceItemInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductItemInput struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateEstimateRequest struct {
	ClientID      string             `json:"client_id"`
	VehicleID     string             `json:"vehicle_id"`
	RepairOrderID string             `json:"repair_order_id"`
	DiscountPct   decimal.Decimal    `json:"discount_pct"`
	TaxPct        decimal.Decimal    `json:"tax_pct"`
	Notes         string             `json:"notes"`
	ServiceItems  []ServiceItemInput `json:"service_items"`
	ProductItems  []ProductItemInput `json:"product_items"`
}

// UpdateEstimateRequest replaces line items, discount, tax and notes.
// Only PENDING estimates accept updates.
type UpdateEstimateRequest struct {
	DiscountPct  decimal.Decimal    `json:"discount_pct"`
	TaxPct       decimal.Decimal    `json:"tax_pct"`
	Notes        string             `json:"notes"`
	ServiceItems []ServiceItemInput `json:"service_items"`
	ProductItems []ProductItemInput `json:"product_items"`
}

type ListEstimateRequest struct {
	pagination.Pagination
	Status EstimateStatus `form:"status"`
	Query  string         `form:"q"`
}

type ListEstimateResponse struct {
	Estimates []*Estimate          `json:"estimates"`
	PageInfo  *pagination.PageInfo `json:"page_info"`
}

// InvoiceData is the read-only projection used to preview an invoice
// before it is created from an accepted estimate.
type InvoiceData struct {
	EstimateID    string             `json:"estimate_id"`
	ClientID      string             `json:"client_id"`
	VehicleID     string             `json:"vehicle_id"`
	RepairOrderID string             `json:"repair_order_id,omitempty"`
	DiscountPct   decimal.Decimal    `json:"discount_pct"`
	TaxPct        decimal.Decimal    `json:"tax_pct"`
	Total         decimal.Decimal    `json:"total"`
	ServiceItems  []ServiceItemInput `json:"service_items"`
	ProductItems  []ProductItemInput `json:"product_items"`
}

type Service interface {
	Create(ctx context.Context, req CreateEstimateRequest) (Estimate, error)
	Update(ctx context.Context, id string, req UpdateEstimateRequest) (Estimate, error)
	Approve(ctx context.Context, id string) (Estimate, error)
	Reject(ctx context.Context, id string) (Estimate, error)
	ConvertToInvoiceData(ctx context.Context, id string) (InvoiceData, error)
	List(ctx context.Context, req ListEstimateRequest) (ListEstimateResponse, error)
	GetByID(ctx context.Context, id string) (Estimate, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound          = errors.New("estimate_not_found")
	ErrInvalidID         = errors.New("invalid_estimate_id")
	ErrNotPending        = errors.New("estimate_not_pending")
	ErrNotAccepted       = errors.New("estimate_not_accepted")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidItem       = errors.New("invalid_line_item")
	ErrInvalidStatus     = errors.New("invalid_estimate_status")
	ErrHasInvoice        = errors.New("estimate_has_invoice")
)
