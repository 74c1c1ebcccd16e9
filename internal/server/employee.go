package server

import (
	"strings"
	"time"

	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	"github.com/gin-gonic/gin"
)

type employeeRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	EntryDate string `json:"entry_date"`
	Status    string `json:"status"`
}

func (r employeeRequest) toDomain() (employeedomain.CreateEmployeeRequest, error) {
	req := employeedomain.CreateEmployeeRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		DNI:       r.DNI,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		Province:  r.Province,
		Country:   r.Country,
		Status:    employeedomain.EmployeeStatus(strings.ToUpper(strings.TrimSpace(r.Status))),
	}
	if r.EntryDate != "" {
		entryDate, err := time.Parse("2006-01-02", r.EntryDate)
		if err != nil {
			return employeedomain.CreateEmployeeRequest{}, ErrInvalidRequest
		}
		req.EntryDate = &entryDate
	}
	return req, nil
}

func (s *Server) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := s.employeeSvc.Create(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "employee created", created)
}

func (s *Server) ListEmployees(c *gin.Context) {
	employees, err := s.employeeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "employees listed", employees)
}

func (s *Server) GetEmployee(c *gin.Context) {
	found, err := s.employeeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "employee found", found)
}

func (s *Server) UpdateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.employeeSvc.Update(c.Request.Context(), c.Param("id"), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "employee updated", updated)
}

func (s *Server) DeleteEmployee(c *gin.Context) {
	if err := s.employeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "employee deleted", nil)
}
