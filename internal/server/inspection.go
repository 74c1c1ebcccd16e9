package server

import (
	"strings"
	"time"

	inspectiondomain "github.com/autotech/workshop/internal/inspection/domain"
	"github.com/gin-gonic/gin"
)

type inspectionItemRequest struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func toItemInputs(items []inspectionItemRequest) []inspectiondomain.InspectionItemInput {
	inputs := make([]inspectiondomain.InspectionItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, inspectiondomain.InspectionItemInput{
			Name:    item.Name,
			Status:  inspectiondomain.ItemStatus(strings.ToUpper(strings.TrimSpace(item.Status))),
			Comment: item.Comment,
		})
	}
	return inputs
}

func (s *Server) CreateInspection(c *gin.Context) {
	var req struct {
		RepairOrderID string                  `json:"repair_order_id"`
		EmployeeID    string                  `json:"employee_id"`
		PerformedAt   string                  `json:"performed_at"`
		Notes         string                  `json:"notes"`
		Items         []inspectionItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq := inspectiondomain.CreateInspectionRequest{
		RepairOrderID: req.RepairOrderID,
		EmployeeID:    req.EmployeeID,
		Notes:         req.Notes,
		Items:         toItemInputs(req.Items),
	}
	if req.PerformedAt != "" {
		performedAt, err := time.Parse(time.RFC3339, req.PerformedAt)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		domainReq.PerformedAt = &performedAt
	}

	created, err := s.inspectionSvc.Create(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "inspection created", created)
}

func (s *Server) GetInspection(c *gin.Context) {
	found, err := s.inspectionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "inspection found", found)
}

func (s *Server) UpdateInspection(c *gin.Context) {
	var req struct {
		Notes string                  `json:"notes"`
		Items []inspectionItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.inspectionSvc.Update(c.Request.Context(), c.Param("id"), inspectiondomain.UpdateInspectionRequest{
		Notes: req.Notes,
		Items: toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "inspection updated", updated)
}

func (s *Server) DeleteInspection(c *gin.Context) {
	if err := s.inspectionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "inspection deleted", nil)
}
