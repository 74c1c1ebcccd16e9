package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	dashboarddomain "github.com/autotech/workshop/internal/dashboard/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardSummary(c *gin.Context) {
	report, err := s.dashboardSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "dashboard summary", report)
}

func (s *Server) GetDashboardFinancial(c *gin.Context) {
	months, err := monthsParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.dashboardSvc.Financial(c.Request.Context(), months)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "financial report", report)
}

func (s *Server) GetDashboardProductivity(c *gin.Context) {
	report, err := s.dashboardSvc.Productivity(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "productivity report", report)
}

func (s *Server) ExportDashboardFinancial(c *gin.Context) {
	months, err := monthsParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	content, err := s.dashboardSvc.ExportFinancial(c.Request.Context(), months)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("financial-report-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func monthsParam(c *gin.Context) (int, error) {
	raw := c.Query("months")
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dashboarddomain.ErrInvalidMonths
	}
	return months, nil
}
