package server

import (
	"strings"

	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type vehicleRequest struct {
	ClientID      string `json:"client_id"`
	Plate         string `json:"plate"`
	ChassisNumber string `json:"chassis_number"`
	EngineNumber  string `json:"engine_number"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	VehicleType   string `json:"vehicle_type"`
	Observations  string `json:"observations"`
}

func (r vehicleRequest) toDomain() vehicledomain.CreateVehicleRequest {
	return vehicledomain.CreateVehicleRequest{
		ClientID:      r.ClientID,
		Plate:         r.Plate,
		ChassisNumber: r.ChassisNumber,
		EngineNumber:  r.EngineNumber,
		Brand:         r.Brand,
		Model:         r.Model,
		Year:          r.Year,
		VehicleType:   r.VehicleType,
		Observations:  r.Observations,
	}
}

func (s *Server) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.vehicleSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, "vehicle created", created)
}

func (s *Server) ListVehicles(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Plate    string `form:"plate"`
		ClientID string `form:"client_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.vehicleSvc.List(c.Request.Context(), vehicledomain.ListVehicleRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Plate:     strings.TrimSpace(query.Plate),
		ClientID:  strings.TrimSpace(query.ClientID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicles listed", resp)
}

func (s *Server) GetVehicle(c *gin.Context) {
	found, err := s.vehicleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicle found", found)
}

func (s *Server) UpdateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.vehicleSvc.Update(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicle updated", updated)
}

func (s *Server) DeleteVehicle(c *gin.Context) {
	if err := s.vehicleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicle deleted", nil)
}

// GetVehicleHistory returns every repair order the vehicle went
// through, newest first.
func (s *Server) GetVehicleHistory(c *gin.Context) {
	history, err := s.repairOrderSvc.WorkHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "vehicle history", history)
}
