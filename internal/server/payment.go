package server

import (
	"strings"
	"time"

	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type paymentRequest struct {
	InvoiceID     string          `json:"invoice_id"`
	PaymentDate   string          `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	PayerName     string          `json:"payer_name"`
	PaymentType   string          `json:"payment_type"`
	BankAccountID string          `json:"bank_account_id"`
	EmployeeID    string          `json:"employee_id"`
}

func (r paymentRequest) paymentDate() (*time.Time, error) {
	if r.PaymentDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, r.PaymentDate)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return &parsed, nil
}

func (r paymentRequest) paymentType() paymentdomain.PaymentType {
	return paymentdomain.PaymentType(strings.ToUpper(strings.TrimSpace(r.PaymentType)))
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	paymentDate, err := req.paymentDate()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		InvoiceID:     req.InvoiceID,
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		PayerName:     req.PayerName,
		PaymentType:   req.paymentType(),
		BankAccountID: req.BankAccountID,
		EmployeeID:    req.EmployeeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "payment recorded", created)
}

func (s *Server) UpdatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	paymentDate, err := req.paymentDate()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.paymentSvc.Update(c.Request.Context(), c.Param("id"), paymentdomain.UpdatePaymentRequest{
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		PayerName:     req.PayerName,
		PaymentType:   req.paymentType(),
		BankAccountID: req.BankAccountID,
		EmployeeID:    req.EmployeeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "payment updated", updated)
}

func (s *Server) DeletePayment(c *gin.Context) {
	performedBy := c.Query("performed_by")
	if err := s.paymentSvc.Delete(c.Request.Context(), c.Param("id"), performedBy); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "payment deleted", nil)
}
