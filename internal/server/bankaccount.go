package server

import (
	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	"github.com/gin-gonic/gin"
)

type bankAccountRequest struct {
	Alias         string `json:"alias"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Holder        string `json:"holder"`
	Active        *bool  `json:"active"`
}

func (r bankAccountRequest) toDomain() bankaccountdomain.CreateBankAccountRequest {
	return bankaccountdomain.CreateBankAccountRequest{
		Alias:         r.Alias,
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
		Holder:        r.Holder,
		Active:        r.Active,
	}
}

func (s *Server) CreateBankAccount(c *gin.Context) {
	var req bankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.bankAccountSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "bank account created", created)
}

func (s *Server) ListBankAccounts(c *gin.Context) {
	accounts, err := s.bankAccountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "bank accounts listed", accounts)
}

func (s *Server) GetBankAccount(c *gin.Context) {
	found, err := s.bankAccountSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "bank account found", found)
}

func (s *Server) UpdateBankAccount(c *gin.Context) {
	var req bankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.bankAccountSvc.Update(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "bank account updated", updated)
}

func (s *Server) DeleteBankAccount(c *gin.Context) {
	if err := s.bankAccountSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "bank account deleted", nil)
}
