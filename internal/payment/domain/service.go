package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	InvoiceID     string          `json:"invoice_id"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	PayerName     string          `json:"payer_name"`
	PaymentType   PaymentType     `json:"payment_type"`
	BankAccountID string          `json:"bank_account_id"`
	EmployeeID    string          `json:"employee_id"`
}

type UpdatePaymentRequest struct {
	PaymentDate   *time.Time      `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	PayerName     string          `json:"payer_name"`
	PaymentType   PaymentType     `json:"payment_type"`
	BankAccountID string          `json:"bank_account_id"`
	EmployeeID    string          `json:"employee_id"`
}

// Summary is the balance view of one invoice. Remaining floors at zero:
// overpayment is accepted but never shown as a negative balance.
type Summary struct {
	InvoiceID      string          `json:"invoice_id"`
	Status         string          `json:"status"`
	TotalServices  decimal.Decimal `json:"total_services"`
	TotalProducts  decimal.Decimal `json:"total_products"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Remaining      decimal.Decimal `json:"remaining"`
}

type Service interface {
	Create(ctx context.Context, req CreatePaymentRequest) (Payment, error)
	Update(ctx context.Context, id string, req UpdatePaymentRequest) (Payment, error)
	Delete(ctx context.Context, id string, performedBy string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
	AuditTrail(ctx context.Context, invoiceID string) ([]PaymentAuditLog, error)
	GetSummary(ctx context.Context, invoiceID string) (Summary, error)
}

var (
	ErrNotFound            = errors.New("payment_not_found")
	ErrInvalidID           = errors.New("invalid_payment_id")
	ErrInvalidAmount       = errors.New("invalid_payment_amount")
	ErrInvalidType         = errors.New("invalid_payment_type")
	ErrBankAccountRequired = errors.New("bank_account_required")
)
