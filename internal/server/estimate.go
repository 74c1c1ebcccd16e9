package server

import (
	"strings"

	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	inspectiondomain "github.com/autotech/workshop/internal/inspection/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateEstimate(c *gin.Context) {
	var req estimatedomain.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.estimateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "estimate created", created)
}

func (s *Server) ListEstimates(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Query  string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.estimateSvc.List(c.Request.Context(), estimatedomain.ListEstimateRequest{
		Pagination: query.Pagination,
		Status:     estimatedomain.EstimateStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Query:      query.Query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "estimates listed", resp)
}

// GetEstimate returns the estimate and, when it is linked to a repair
// order, the open inspection issues found during diagnosis.
func (s *Server) GetEstimate(c *gin.Context) {
	found, err := s.estimateSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var issues []inspectiondomain.InspectionItem
	if found.RepairOrderID != nil {
		issues, err = s.inspectionSvc.Issues(c.Request.Context(), found.RepairOrderID.String())
		if err != nil {
			AbortWithError(c, err)
			return
		}
	}

	respondOK(c, "estimate found", gin.H{
		"estimate": found,
		"issues":   issues,
	})
}

func (s *Server) UpdateEstimate(c *gin.Context) {
	var req estimatedomain.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.estimateSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "estimate updated", updated)
}

func (s *Server) ApproveEstimate(c *gin.Context) {
	updated, err := s.estimateSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "estimate approved", updated)
}

func (s *Server) RejectEstimate(c *gin.Context) {
	updated, err := s.estimateSvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "estimate rejected", updated)
}

func (s *Server) GetEstimateInvoiceData(c *gin.Context) {
	data, err := s.estimateSvc.ConvertToInvoiceData(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "invoice data", data)
}

func (s *Server) DeleteEstimate(c *gin.Context) {
	if err := s.estimateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "estimate deleted", nil)
}
