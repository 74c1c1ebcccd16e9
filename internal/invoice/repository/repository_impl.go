package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func Provide() domain.Repository {
	return &invoiceRepository{}
}

func (r *invoiceRepository) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Save(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Omit("ServiceItems", "ProductItems").
		Save(invoice).Error
}

func (r *invoiceRepository) ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, services []domain.ServiceItem, products []domain.ProductItem) error {
	if err := db.WithContext(ctx).
		Delete(&domain.ServiceItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Delete(&domain.ProductItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
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

func (r *invoiceRepository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("ServiceItems").
		Preload("ProductItems").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByEstimate(ctx context.Context, db *gorm.DB, estimateID snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		First(&invoice, "estimate_id = ?", estimateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, db *gorm.DB, req domain.ListInvoiceRequest) ([]*domain.Invoice, error) {
	query := db.WithContext(ctx).Model(&domain.Invoice{})

	if req.Status != "" {
		query = query.Where("invoices.status = ?", req.Status)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		like := "%" + q + "%"
		query = query.
			Joins("JOIN clients ON clients.id = invoices.client_id").
			Joins("LEFT JOIN vehicles ON vehicles.id = invoices.vehicle_id").
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
		query = query.Where("invoices.id < ?", cursor.ID)
	}

	var invoices []*domain.Invoice
	err := query.
		Preload("ServiceItems").
		Preload("ProductItems").
		Order("invoices.id desc").
		Limit(req.PageSize + 1).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) TotalPaid(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (decimal.Decimal, error) {
	var totalPaid decimal.Decimal
	err := db.WithContext(ctx).
		Table("payments").
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error
	if err != nil {
		return decimal.Zero, err
	}
	return totalPaid, nil
}

// Delete removes the invoice, its line items and its payments in the
// caller's transaction. Audit log rows are historical and stay.
func (r *invoiceRepository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Delete(&domain.ServiceItem{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Delete(&domain.ProductItem{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Exec("DELETE FROM payments WHERE invoice_id = ?", id).Error; err != nil {
		return err
	}
	result := db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
