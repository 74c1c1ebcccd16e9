package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists estimates as fully-materialized aggregates: every
// read returns the estimate with both item sets loaded.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, estimate *Estimate) error
	Save(ctx context.Context, db *gorm.DB, estimate *Estimate) error
	ReplaceItems(ctx context.Context, db *gorm.DB, estimateID snowflake.ID, services []ServiceItem, products []ProductItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Estimate, error)
	List(ctx context.Context, db *gorm.DB, req ListEstimateRequest) ([]*Estimate, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
