package domain

import (
	"context"

	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListClientFilter struct {
	Query      string
	ClientType *ClientType
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Save(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, filter ListClientFilter, page pagination.Pagination) ([]*Client, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
