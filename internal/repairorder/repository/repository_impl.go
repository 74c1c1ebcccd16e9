package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repairOrderRepository struct{}

func Provide() domain.Repository {
	return &repairOrderRepository{}
}

func (r *repairOrderRepository) Insert(ctx context.Context, db *gorm.DB, order *domain.RepairOrder) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repairOrderRepository) Save(ctx context.Context, db *gorm.DB, order *domain.RepairOrder) error {
	return db.WithContext(ctx).Omit("Employees").Save(order).Error
}

func (r *repairOrderRepository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RepairOrder, error) {
	var order domain.RepairOrder
	err := db.WithContext(ctx).
		Preload("Employees").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repairOrderRepository) List(ctx context.Context, db *gorm.DB, req domain.ListRepairOrderRequest) ([]*domain.RepairOrder, error) {
	query := db.WithContext(ctx).Model(&domain.RepairOrder{})

	if req.Status != "" {
		query = query.Where("repair_orders.status = ?", req.Status)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		like := "%" + q + "%"
		query = query.
			Joins("JOIN clients ON clients.id = repair_orders.client_id").
			Joins("JOIN vehicles ON vehicles.id = repair_orders.vehicle_id").
			Where(
				"repair_orders.title LIKE ? OR clients.first_name LIKE ? OR clients.last_name LIKE ? OR vehicles.plate LIKE ?",
				like, like, like, like,
			)
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		query = query.Where("repair_orders.id < ?", cursor.ID)
	}

	var orders []*domain.RepairOrder
	err := query.
		Preload("Employees").
		Order("repair_orders.id desc").
		Limit(req.PageSize + 1).
		Find(&orders).Error
	return orders, err
}

func (r *repairOrderRepository) ListByVehicle(ctx context.Context, db *gorm.DB, vehicleID snowflake.ID) ([]*domain.RepairOrder, error) {
	var orders []*domain.RepairOrder
	err := db.WithContext(ctx).
		Preload("Employees").
		Where("vehicle_id = ?", vehicleID).
		Order("entry_date desc, number desc").
		Find(&orders).Error
	return orders, err
}

func (r *repairOrderRepository) NextNumber(ctx context.Context, db *gorm.DB) (int64, error) {
	var max int64
	err := db.WithContext(ctx).
		Model(&domain.RepairOrder{}).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *repairOrderRepository) ReplaceEmployees(ctx context.Context, db *gorm.DB, orderID snowflake.ID, employees []domain.OrderEmployee) error {
	if err := db.WithContext(ctx).
		Delete(&domain.OrderEmployee{}, "repair_order_id = ?", orderID).Error; err != nil {
		return err
	}
	if len(employees) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&employees).Error
}

func (r *repairOrderRepository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Delete(&domain.OrderEmployee{}, "repair_order_id = ?", id).Error; err != nil {
		return err
	}
	result := db.WithContext(ctx).Delete(&domain.RepairOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
