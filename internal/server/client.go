package server

import (
	"strings"
	"time"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type clientRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DNI            string `json:"dni"`
	CommercialName string `json:"commercial_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Province       string `json:"province"`
	Country        string `json:"country"`
	ClientType     string `json:"client_type"`
	EntryDate      string `json:"entry_date"`
}

func (r clientRequest) toDomain() (clientdomain.CreateClientRequest, error) {
	req := clientdomain.CreateClientRequest{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DNI:            r.DNI,
		CommercialName: r.CommercialName,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		Province:       r.Province,
		Country:        r.Country,
		ClientType:     clientdomain.ClientType(strings.ToUpper(strings.TrimSpace(r.ClientType))),
	}
	if r.EntryDate != "" {
		entryDate, err := time.Parse("2006-01-02", r.EntryDate)
		if err != nil {
			return clientdomain.CreateClientRequest{}, ErrInvalidRequest
		}
		req.EntryDate = &entryDate
	}
	return req, nil
}

func (s *Server) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	created, err := s.clientSvc.Create(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "client created", created)
}

func (s *Server) ListClients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Query      string `form:"q"`
		ClientType string `form:"client_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := clientdomain.ListClientRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Query:     strings.TrimSpace(query.Query),
	}
	if t := strings.ToUpper(strings.TrimSpace(query.ClientType)); t != "" {
		clientType := clientdomain.ClientType(t)
		req.ClientType = &clientType
	}

	resp, err := s.clientSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "clients listed", resp)
}

func (s *Server) GetClient(c *gin.Context) {
	found, err := s.clientSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "client found", found)
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated, err := s.clientSvc.Update(c.Request.Context(), c.Param("id"), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "client updated", updated)
}

func (s *Server) DeleteClient(c *gin.Context) {
	if err := s.clientSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "client deleted", nil)
}

func (s *Server) ListClientVehicles(c *gin.Context) {
	vehicles, err := s.vehicleSvc.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicles listed", vehicles)
}
