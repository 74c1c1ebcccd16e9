package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/autotech/workshop/internal/estimate/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type estimateRepository struct{}

func Provide() domain.Repository {
	return &estimateRepository{}
}

func (r *estimateRepository) Insert(ctx context.Context, db *gorm.DB, estimate *domain.Estimate) error {
	return db.WithContext(ctx).Create(estimate).Error
}

func (r *estimateRepository) Save(ctx context.Context, db *gorm.DB, estimate *domain.Estimate) error {
	return db.WithContext(ctx).
		Omit("ServiceItems", "ProductItems").
		Save(estimate).Error
}

func (r *estimateRepository) ReplaceItems(ctx context.Context, db *gorm.DB, estimateID snowflake.ID, services []domain.ServiceItem, products []domain.ProductItem) error {
	if err := db.WithContext(ctx).
		Delete(&domain.ServiceItem{}, "estimate_id = ?", estimateID).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Delete(&domain.ProductItem{}, "estimate_id = ?", estimateID).Error; err != nil {
		return err
	}
	if len(services) > 0 {
		if err := db.WithContext(ctx).Create(&services).Error; err != nil {
			return err
		}
	}
	if len(products) > 0 {
		if err := db.WithContext(ctx).Create(&products).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *estimateRepository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := db.WithContext(ctx).
		Preload("ServiceItems").
		Preload("ProductItems").
		First(&estimate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}

func (r *estimateRepository) List(ctx context.Context, db *gorm.DB, req domain.ListEstimateRequest) ([]*domain.Estimate, error) {
	query := db.WithContext(ctx).Model(&domain.Estimate{})

	if req.Status != "" {
		query = query.Where("estimates.status = ?", req.Status)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		like := "%" + q + "%"
		query = query.
			Joins("JOIN clients ON clients.id = estimates.client_id").
			Joins("JOIN vehicles ON vehicles.id = estimates.vehicle_id").
			Where(
				"clients.first_name LIKE ? OR clients.last_name LIKE ? OR vehicles.plate LIKE ?",
				like, like, like,
			)
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		query = query.Where("estimates.id < ?", cursor.ID)
	}

	var estimates []*domain.Estimate
	err := query.
		Preload("ServiceItems").
		Preload("ProductItems").
		Order("estimates.id desc").
		Limit(req.PageSize + 1).
		Find(&estimates).Error
	return estimates, err
}

func (r *estimateRepository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Delete(&domain.ServiceItem{}, "estimate_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Delete(&domain.ProductItem{}, "estimate_id = ?", id).Error; err != nil {
		return err
	}
	result := db.WithContext(ctx).Delete(&domain.Estimate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
