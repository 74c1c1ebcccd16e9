package server

import (
	"strings"

	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "invoice created", created)
}

func (s *Server) CreateInvoiceFromEstimate(c *gin.Context) {
	created, err := s.invoiceSvc.CreateFromEstimate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "invoice created from estimate", created)
}

func (s *Server) CreateInvoiceFromRepairOrder(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.invoiceSvc.CreateFromRepairOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "invoice created from repair order", created)
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Query  string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Pagination: query.Pagination,
		Status:     invoicedomain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Query:      query.Query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "invoices listed", resp)
}

func (s *Server) GetInvoice(c *gin.Context) {
	found, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "invoice found", found)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "invoice updated", updated)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "invoice deleted", nil)
}

func (s *Server) ListInvoicePayments(c *gin.Context) {
	payments, err := s.paymentSvc.ListByInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "payments listed", payments)
}

func (s *Server) GetInvoicePaymentSummary(c *gin.Context) {
	summary, err := s.paymentSvc.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "payment summary", summary)
}

func (s *Server) GetInvoicePaymentAudit(c *gin.Context) {
	trail, err := s.paymentSvc.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "payment audit trail", trail)
}
