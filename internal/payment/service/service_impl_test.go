package service

import (
	"context"
	"testing"

	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	invoiceID snowflake.ID
}

// setupLedger seeds one PENDING invoice with a single 1000.00 service
// charge, no discount and no tax.
func setupLedger(t *testing.T) ledgerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.ServiceItem{},
		&invoicedomain.ProductItem{},
		&domain.Payment{},
		&domain.PaymentAuditLog{},
		&bankaccountdomain.BankAccount{},
		&employeedomain.Employee{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	invoiceID := node.Generate()
	invoice := invoicedomain.Invoice{
		ID:       invoiceID,
		ClientID: node.Generate(),
		Status:   invoicedomain.StatusPending,
		Total:    decimal.RequireFromString("1000.00"),
		ServiceItems: []invoicedomain.ServiceItem{{
			ID:        node.Generate(),
			InvoiceID: invoiceID,
			Name:      "Engine overhaul",
			Price:     decimal.RequireFromString("1000.00"),
		}},
	}
	assert.NoError(t, db.Create(&invoice).Error)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return ledgerFixture{svc: svc, db: db, node: node, invoiceID: invoiceID}
}

func (f ledgerFixture) pay(t *testing.T, amount string) domain.Payment {
	t.Helper()
	payment, err := f.svc.Create(context.Background(), domain.CreatePaymentRequest{
		InvoiceID:   f.invoiceID.String(),
		Amount:      decimal.RequireFromString(amount),
		PayerName:   "Marta Gomez",
		PaymentType: domain.PaymentTypeCash,
	})
	assert.NoError(t, err)
	return payment
}

func (f ledgerFixture) invoiceStatus(t *testing.T) invoicedomain.InvoiceStatus {
	t.Helper()
	var invoice invoicedomain.Invoice
	assert.NoError(t, f.db.First(&invoice, "id = ?", f.invoiceID).Error)
	return invoice.Status
}

func TestLedgerDrivesInvoiceStatus(t *testing.T) {
	f := setupLedger(t)

	f.pay(t, "400.00")
	assert.Equal(t, invoicedomain.StatusPartiallyPaid, f.invoiceStatus(t))

	f.pay(t, "600.00")
	assert.Equal(t, invoicedomain.StatusPaid, f.invoiceStatus(t))

	summary, err := f.svc.GetSummary(context.Background(), f.invoiceID.String())
	assert.NoError(t, err)
	assert.Equal(t, "1000.00", summary.TotalPaid.StringFixed(2))
	assert.Equal(t, "0.00", summary.Remaining.StringFixed(2))
	assert.Equal(t, string(invoicedomain.StatusPaid), summary.Status)
}

func TestDeletePaymentRevertsStatus(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	f.pay(t, "400.00")
	second := f.pay(t, "600.00")
	assert.Equal(t, invoicedomain.StatusPaid, f.invoiceStatus(t))

	assert.NoError(t, f.svc.Delete(ctx, second.ID.String(), ""))
	assert.Equal(t, invoicedomain.StatusPartiallyPaid, f.invoiceStatus(t))

	summary, err := f.svc.GetSummary(ctx, f.invoiceID.String())
	assert.NoError(t, err)
	assert.Equal(t, "400.00", summary.TotalPaid.StringFixed(2))
	assert.Equal(t, "600.00", summary.Remaining.StringFixed(2))
}

func TestDeleteAllPaymentsRevertsToPending(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	payment := f.pay(t, "250.00")
	assert.Equal(t, invoicedomain.StatusPartiallyPaid, f.invoiceStatus(t))

	assert.NoError(t, f.svc.Delete(ctx, payment.ID.String(), ""))
	assert.Equal(t, invoicedomain.StatusPending, f.invoiceStatus(t))
}

func TestCreatePaymentValidation(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID:   f.invoiceID.String(),
		Amount:      decimal.Zero,
		PaymentType: domain.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID:   f.invoiceID.String(),
		Amount:      decimal.RequireFromString("-5.00"),
		PaymentType: domain.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID:   f.invoiceID.String(),
		Amount:      decimal.RequireFromString("10.00"),
		PaymentType: domain.PaymentTypeBankAccount,
	})
	assert.ErrorIs(t, err, domain.ErrBankAccountRequired)

	_, err = f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID:   f.invoiceID.String(),
		Amount:      decimal.RequireFromString("10.00"),
		PaymentType: "CHEQUE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID:   f.node.Generate().String(),
		Amount:      decimal.RequireFromString("10.00"),
		PaymentType: domain.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestAuditTrailSurvivesDeletes(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	employeeID := f.node.Generate()
	assert.NoError(t, f.db.Create(&employeedomain.Employee{
		ID:        employeeID,
		FirstName: "Luis",
		LastName:  "Perez",
		Status:    employeedomain.EmployeeStatusActive,
	}).Error)

	payment := f.pay(t, "300.00")

	_, err := f.svc.Update(ctx, payment.ID.String(), domain.UpdatePaymentRequest{
		Amount:      decimal.RequireFromString("350.00"),
		PayerName:   "Marta Gomez",
		PaymentType: domain.PaymentTypeCash,
		EmployeeID:  employeeID.String(),
	})
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Delete(ctx, payment.ID.String(), employeeID.String()))

	trail, err := f.svc.AuditTrail(ctx, f.invoiceID.String())
	assert.NoError(t, err)
	assert.Len(t, trail, 3)
	assert.Equal(t, domain.AuditActionCreated, trail[0].Action)
	assert.Equal(t, domain.AuditActionModified, trail[1].Action)
	assert.Equal(t, domain.AuditActionDeleted, trail[2].Action)

	// The MODIFIED row keeps both sides of the change.
	assert.Equal(t, "300.00", trail[1].OldData["amount"])
	assert.Equal(t, "350.00", trail[1].NewData["amount"])
	assert.Equal(t, employeeID.String(), trail[2].PerformedBy.String())

	// Deleting the payment never touches its history.
	var payments int64
	assert.NoError(t, f.db.Model(&domain.Payment{}).
		Where("invoice_id = ?", f.invoiceID).Count(&payments).Error)
	assert.Zero(t, payments)
}

func TestSummaryIsReadOnly(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	f.pay(t, "400.00")

	first, err := f.svc.GetSummary(ctx, f.invoiceID.String())
	assert.NoError(t, err)
	second, err := f.svc.GetSummary(ctx, f.invoiceID.String())
	assert.NoError(t, err)

	assert.Equal(t, first.TotalPaid.StringFixed(2), second.TotalPaid.StringFixed(2))
	assert.Equal(t, first.Remaining.StringFixed(2), second.Remaining.StringFixed(2))
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, "1000.00", first.TotalServices.StringFixed(2))
	assert.Equal(t, "600.00", first.Remaining.StringFixed(2))
}
