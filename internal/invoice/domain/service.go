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

type CreateInvoiceRequest struct {
	ClientID     string             `json:"client_id"`
	VehicleID    string             `json:"vehicle_id"`
	DiscountPct  decimal.Decimal    `json:"discount_pct"`
	TaxPct       decimal.Decimal    `json:"tax_pct"`
	Notes        string             `json:"notes"`
	ServiceItems []ServiceItemInput `json:"service_items"`
	ProductItems []ProductItemInput `json:"product_items"`
}

// UpdateInvoiceRequest replaces line items, discount, tax and notes.
// Allowed at any status; the total and status are re-derived afterwards.
type UpdateInvoiceRequest struct {
	DiscountPct  decimal.Decimal    `json:"discount_pct"`
	TaxPct       decimal.Decimal    `json:"tax_pct"`
	Notes        string             `json:"notes"`
	ServiceItems []ServiceItemInput `json:"service_items"`
	ProductItems []ProductItemInput `json:"product_items"`
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status InvoiceStatus `form:"status"`
	Query  string        `form:"q"`
}

type ListInvoiceResponse struct {
	Invoices []*Invoice           `json:"invoices"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	CreateFromEstimate(ctx context.Context, estimateID string) (Invoice, error)
	CreateFromRepairOrder(ctx context.Context, repairOrderID string, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound          = errors.New("invoice_not_found")
	ErrInvalidID         = errors.New("invalid_invoice_id")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidItem       = errors.New("invalid_line_item")
	ErrInvalidStatus     = errors.New("invalid_invoice_status")
	ErrEstimateBilled    = errors.New("estimate_already_billed")
	ErrLinkedToOrder     = errors.New("invoice_linked_to_repair_order")
	ErrWalkInServices    = errors.New("walk_in_client_products_only")
)
