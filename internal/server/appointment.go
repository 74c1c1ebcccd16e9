package server

import (
	"strings"
	"time"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	"github.com/gin-gonic/gin"
)

type appointmentRequest struct {
	ClientID    string `json:"client_id"`
	VehicleID   string `json:"vehicle_id"`
	ScheduledAt string `json:"scheduled_at"`
	EndsAt      string `json:"ends_at"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
}

func (s *Server) CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		AbortWithError(c, appointmentdomain.ErrInvalidTime)
		return
	}
	endsAt, err := parseOptionalTime(req.EndsAt)
	if err != nil {
		AbortWithError(c, appointmentdomain.ErrInvalidTime)
		return
	}

	created, err := s.appointmentSvc.Create(c.Request.Context(), appointmentdomain.CreateAppointmentRequest{
		ClientID:    req.ClientID,
		VehicleID:   req.VehicleID,
		ScheduledAt: scheduledAt,
		EndsAt:      endsAt,
		Reason:      req.Reason,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "appointment created", created)
}

func (s *Server) ListAppointments(c *gin.Context) {
	var query struct {
		ClientID string `form:"client_id"`
		From     string `form:"from"`
		To       string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	filter := appointmentdomain.ListAppointmentFilter{ClientID: query.ClientID}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			AbortWithError(c, appointmentdomain.ErrInvalidTime)
			return
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			AbortWithError(c, appointmentdomain.ErrInvalidTime)
			return
		}
		// inclusive day range
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	appointments, err := s.appointmentSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "appointments listed", appointments)
}

func (s *Server) GetAppointment(c *gin.Context) {
	found, err := s.appointmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "appointment found", found)
}

func (s *Server) UpdateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := appointmentdomain.UpdateAppointmentRequest{
		Reason: req.Reason,
		Notes:  req.Notes,
		Status: appointmentdomain.AppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	}
	if req.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			AbortWithError(c, appointmentdomain.ErrInvalidTime)
			return
		}
		update.ScheduledAt = scheduledAt
	}
	endsAt, err := parseOptionalTime(req.EndsAt)
	if err != nil {
		AbortWithError(c, appointmentdomain.ErrInvalidTime)
		return
	}
	update.EndsAt = endsAt

	updated, err := s.appointmentSvc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "appointment updated", updated)
}

func parseOptionalTime(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *Server) DeleteAppointment(c *gin.Context) {
	if err := s.appointmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "appointment deleted", nil)
}
