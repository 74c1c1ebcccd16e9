package domain

import (
	"context"

	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListVehicleFilter struct {
	Plate    string
	ClientID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	Save(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Vehicle, error)
	List(ctx context.Context, db *gorm.DB, filter ListVehicleFilter, page pagination.Pagination) ([]*Vehicle, error)
	ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*Vehicle, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
