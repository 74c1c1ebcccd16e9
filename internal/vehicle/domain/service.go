package domain

import (
	"context"
	"errors"

	"github.com/autotech/workshop/pkg/db/pagination"
)

type CreateVehicleRequest struct {
	ClientID      string
	Plate         string
	ChassisNumber string
	EngineNumber  string
	Brand         string
	Model         string
	Year          int
	VehicleType   string
	Observations  string
}

type UpdateVehicleRequest = CreateVehicleRequest

type ListVehicleRequest struct {
	PageToken string
	PageSize  int
	Plate     string
	ClientID  string
}

type ListVehicleResponse struct {
	pagination.PageInfo
	Vehicles []Vehicle `json:"vehicles"`
}

type Service interface {
	Create(ctx context.Context, req CreateVehicleRequest) (Vehicle, error)
	Update(ctx context.Context, id string, req UpdateVehicleRequest) (Vehicle, error)
	List(ctx context.Context, req ListVehicleRequest) (ListVehicleResponse, error)
	GetByID(ctx context.Context, id string) (Vehicle, error)
	ListByClient(ctx context.Context, clientID string) ([]Vehicle, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound       = errors.New("vehicle_not_found")
	ErrInvalidID      = errors.New("invalid_vehicle_id")
	ErrInvalidPlate   = errors.New("invalid_vehicle_plate")
	ErrInvalidBrand   = errors.New("invalid_vehicle_brand")
	ErrDuplicatePlate = errors.New("duplicate_vehicle_plate")
)
