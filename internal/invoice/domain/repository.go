package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists invoices as fully-materialized aggregates with
// both item sets loaded on every read.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, services []ServiceItem, products []ProductItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByEstimate(ctx context.Context, db *gorm.DB, estimateID snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, req ListInvoiceRequest) ([]*Invoice, error)
	TotalPaid(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (decimal.Decimal, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
