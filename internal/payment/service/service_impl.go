package service

import (
	"context"
	"errors"
	"strings"
	"time"

	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/internal/payment/domain"
	"github.com/autotech/workshop/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
	}
}

// Create appends a payment, re-sums the invoice's ledger and re-derives
// the invoice status, all in one transaction.
func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return domain.Payment{}, invoicedomain.ErrInvalidID
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if !domain.ValidType(req.PaymentType) {
		return domain.Payment{}, domain.ErrInvalidType
	}

	bankAccountID, err := parseOptionalID(req.BankAccountID)
	if err != nil {
		return domain.Payment{}, err
	}
	if req.PaymentType == domain.PaymentTypeBankAccount && bankAccountID == nil {
		return domain.Payment{}, domain.ErrBankAccountRequired
	}
	employeeID, err := parseOptionalID(req.EmployeeID)
	if err != nil {
		return domain.Payment{}, err
	}

	var created domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice invoicedomain.Invoice
		if err := db.LockForUpdate(tx).First(&invoice, "id = ?", invoiceID).Error; err != nil {
			return invoicedomain.ErrNotFound
		}
		if err := requireReferences(tx, bankAccountID, employeeID); err != nil {
			return err
		}

		paymentDate := time.Now().UTC()
		if req.PaymentDate != nil {
			paymentDate = req.PaymentDate.UTC()
		}

		now := time.Now().UTC()
		created = domain.Payment{
			ID:            s.genID.Generate(),
			InvoiceID:     invoice.ID,
			PaymentDate:   paymentDate,
			Amount:        req.Amount.Round(2),
			PayerName:     strings.TrimSpace(req.PayerName),
			PaymentType:   req.PaymentType,
			BankAccountID: bankAccountID,
			EmployeeID:    employeeID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if err := s.writeAudit(tx, created, domain.AuditActionCreated, nil, created.Snapshot(), employeeID); err != nil {
			return err
		}
		return s.syncInvoiceStatus(tx, &invoice)
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("recorded payment",
		zap.String("id", created.ID.String()),
		zap.String("invoice_id", created.InvoiceID.String()),
		zap.String("amount", created.Amount.StringFixed(2)),
	)
	return created, nil
}

// Update replaces the mutable fields of a ledger entry. The amount may
// move in either direction, so the invoice status can too.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePaymentRequest) (domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if !domain.ValidType(req.PaymentType) {
		return domain.Payment{}, domain.ErrInvalidType
	}

	bankAccountID, err := parseOptionalID(req.BankAccountID)
	if err != nil {
		return domain.Payment{}, err
	}
	if req.PaymentType == domain.PaymentTypeBankAccount && bankAccountID == nil {
		return domain.Payment{}, domain.ErrBankAccountRequired
	}
	employeeID, err := parseOptionalID(req.EmployeeID)
	if err != nil {
		return domain.Payment{}, err
	}

	var updated domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Payment
		if err := tx.First(&existing, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := requireReferences(tx, bankAccountID, employeeID); err != nil {
			return err
		}

		before := existing.Snapshot()

		if req.PaymentDate != nil {
			existing.PaymentDate = req.PaymentDate.UTC()
		}
		existing.Amount = req.Amount.Round(2)
		existing.PayerName = strings.TrimSpace(req.PayerName)
		existing.PaymentType = req.PaymentType
		existing.BankAccountID = bankAccountID
		existing.EmployeeID = employeeID
		existing.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		if err := s.writeAudit(tx, existing, domain.AuditActionModified, before, existing.Snapshot(), employeeID); err != nil {
			return err
		}

		var invoice invoicedomain.Invoice
		if err := db.LockForUpdate(tx).First(&invoice, "id = ?", existing.InvoiceID).Error; err != nil {
			return invoicedomain.ErrNotFound
		}
		if err := s.syncInvoiceStatus(tx, &invoice); err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return updated, nil
}

// Delete removes a ledger entry. The audit row with the full snapshot
// and the acting employee is written before the payment disappears.
func (s *Service) Delete(ctx context.Context, id string, performedBy string) error {
	paymentID, err := parseID(id)
	if err != nil {
		return err
	}
	actorID, err := parseOptionalID(performedBy)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Payment
		if err := tx.First(&existing, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if actorID != nil {
			var count int64
			if err := tx.Model(&employeedomain.Employee{}).
				Where("id = ?", *actorID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return employeedomain.ErrNotFound
			}
		}

		if err := s.writeAudit(tx, existing, domain.AuditActionDeleted, existing.Snapshot(), nil, actorID); err != nil {
			return err
		}
		if err := tx.Delete(&domain.Payment{}, "id = ?", existing.ID).Error; err != nil {
			return err
		}

		var invoice invoicedomain.Invoice
		if err := db.LockForUpdate(tx).First(&invoice, "id = ?", existing.InvoiceID).Error; err != nil {
			return invoicedomain.ErrNotFound
		}
		return s.syncInvoiceStatus(tx, &invoice)
	})
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return nil, invoicedomain.ErrInvalidID
	}

	var payments []domain.Payment
	err = s.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("payment_date asc, id asc").
		Find(&payments).Error
	return payments, err
}

func (s *Service) AuditTrail(ctx context.Context, invoiceID string) ([]domain.PaymentAuditLog, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return nil, invoicedomain.ErrInvalidID
	}

	var logs []domain.PaymentAuditLog
	err = s.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at asc, id asc").
		Find(&logs).Error
	return logs, err
}

// GetSummary reports the invoice balance. Reading twice without a
// mutation in between returns identical results.
func (s *Service) GetSummary(ctx context.Context, invoiceID string) (domain.Summary, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return domain.Summary{}, invoicedomain.ErrInvalidID
	}

	var invoice invoicedomain.Invoice
	err = s.db.WithContext(ctx).
		Preload("ServiceItems").
		Preload("ProductItems").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Summary{}, invoicedomain.ErrNotFound
		}
		return domain.Summary{}, err
	}

	totalPaid, err := s.totalPaid(s.db.WithContext(ctx), invoice.ID)
	if err != nil {
		return domain.Summary{}, err
	}

	breakdown := invoice.Breakdown()
	remaining := invoice.Total.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return domain.Summary{
		InvoiceID:      invoice.ID.String(),
		Status:         string(invoicedomain.DeriveStatus(invoice.Total, totalPaid)),
		TotalServices:  breakdown.ServicesSubtotal,
		TotalProducts:  breakdown.ProductsSubtotal,
		DiscountAmount: breakdown.DiscountAmount,
		TaxAmount:      breakdown.TaxAmount,
		Total:          invoice.Total,
		TotalPaid:      totalPaid,
		Remaining:      remaining,
	}, nil
}

// syncInvoiceStatus re-sums the ledger and persists the derived status.
// Callers hold the invoice row lock, so concurrent ledger writers
// serialize and no stale totalPaid can win.
func (s *Service) syncInvoiceStatus(tx *gorm.DB, invoice *invoicedomain.Invoice) error {
	totalPaid, err := s.totalPaid(tx, invoice.ID)
	if err != nil {
		return err
	}

	status := invoicedomain.DeriveStatus(invoice.Total, totalPaid)
	if status == invoice.Status {
		return nil
	}

	invoice.Status = status
	invoice.UpdatedAt = time.Now().UTC()
	return tx.Omit("ServiceItems", "ProductItems").Save(invoice).Error
}

func (s *Service) totalPaid(tx *gorm.DB, invoiceID snowflake.ID) (decimal.Decimal, error) {
	var totalPaid decimal.Decimal
	err := tx.Model(&domain.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error
	if err != nil {
		return decimal.Zero, err
	}
	return totalPaid, nil
}

func (s *Service) writeAudit(tx *gorm.DB, payment domain.Payment, action domain.AuditAction, oldData, newData map[string]interface{}, performedBy *snowflake.ID) error {
	return tx.Create(&domain.PaymentAuditLog{
		ID:          s.genID.Generate(),
		PaymentID:   payment.ID,
		InvoiceID:   payment.InvoiceID,
		Action:      action,
		OldData:     oldData,
		NewData:     newData,
		PerformedBy: performedBy,
		CreatedAt:   time.Now().UTC(),
	}).Error
}

func requireReferences(tx *gorm.DB, bankAccountID, employeeID *snowflake.ID) error {
	var count int64
	if bankAccountID != nil {
		if err := tx.Model(&bankaccountdomain.BankAccount{}).
			Where("id = ?", *bankAccountID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return bankaccountdomain.ErrNotFound
		}
	}
	if employeeID != nil {
		if err := tx.Model(&employeedomain.Employee{}).
			Where("id = ?", *employeeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return employeedomain.ErrNotFound
		}
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	return &id, nil
}
