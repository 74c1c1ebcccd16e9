package server

import (
	"strings"
	"time"

	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createRepairOrderRequest struct {
	ClientID      string   `json:"client_id"`
	VehicleID     string   `json:"vehicle_id"`
	AppointmentID string   `json:"appointment_id"`
	Reason        string   `json:"reason"`
	ClientSource  string   `json:"client_source"`
	Notes         string   `json:"notes"`
	EntryDate     string   `json:"entry_date"`
	EmployeeIDs   []string `json:"employee_ids"`
}

func (s *Server) CreateRepairOrder(c *gin.Context) {
	var req createRepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq := repairorderdomain.CreateRepairOrderRequest{
		ClientID:      req.ClientID,
		VehicleID:     req.VehicleID,
		AppointmentID: req.AppointmentID,
		Reason:        req.Reason,
		ClientSource:  req.ClientSource,
		Notes:         req.Notes,
		EmployeeIDs:   req.EmployeeIDs,
	}
	if req.EntryDate != "" {
		entryDate, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		domainReq.EntryDate = &entryDate
	}

	created, err := s.repairOrderSvc.Create(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "repair order created", created)
}

func (s *Server) ListRepairOrders(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Query  string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.repairOrderSvc.List(c.Request.Context(), repairorderdomain.ListRepairOrderRequest{
		Pagination: query.Pagination,
		Status:     repairorderdomain.OrderStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Query:      query.Query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair orders listed", resp)
}

func (s *Server) GetRepairOrder(c *gin.Context) {
	found, err := s.repairOrderSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order found", found)
}

func (s *Server) UpdateRepairOrder(c *gin.Context) {
	var req struct {
		Reason       string `json:"reason"`
		ClientSource string `json:"client_source"`
		EntryDate    string `json:"entry_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := repairorderdomain.UpdateRepairOrderRequest{
		Reason:       req.Reason,
		ClientSource: req.ClientSource,
	}
	if req.EntryDate != "" {
		entryDate, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		update.EntryDate = &entryDate
	}

	updated, err := s.repairOrderSvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order updated", updated)
}

func (s *Server) UpdateRepairOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	status := repairorderdomain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	updated, err := s.repairOrderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order status updated", updated)
}

func (s *Server) UpdateRepairOrderTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.repairOrderSvc.UpdateTitle(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order title updated", updated)
}

func (s *Server) UpdateRepairOrderNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.repairOrderSvc.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order notes updated", updated)
}

func (s *Server) AssignRepairOrderEmployees(c *gin.Context) {
	var req struct {
		EmployeeIDs []string `json:"employee_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.repairOrderSvc.AssignEmployees(c.Request.Context(), c.Param("id"), req.EmployeeIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order employees assigned", updated)
}

func (s *Server) DeleteRepairOrder(c *gin.Context) {
	if err := s.repairOrderSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "repair order deleted", nil)
}

func (s *Server) ListRepairOrderInspections(c *gin.Context) {
	inspections, err := s.inspectionSvc.ListByRepairOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "inspections listed", inspections)
}
