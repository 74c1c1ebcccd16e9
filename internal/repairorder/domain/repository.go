package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists repair orders. Implementations receive the
// caller's transaction handle so multi-step mutations stay atomic.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *RepairOrder) error
	Save(ctx context.Context, db *gorm.DB, order *RepairOrder) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RepairOrder, error)
	List(ctx context.Context, db *gorm.DB, req ListRepairOrderRequest) ([]*RepairOrder, error)
	ListByVehicle(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID) ([]*RepairOrder, error)
	NextNumber(ctx context.Context, db *gorm.DB) (int64, error)
	ReplaceEmployees(ctx context.Context, db *gorm.DB, orderID snowflake.ID, employees []OrderEmployee) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
