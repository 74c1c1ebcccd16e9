package domain

import (
	"context"
	"errors"
	"time"

	"github.com/autotech/workshop/pkg/db/pagination"
)

type CreateRepairOrderRequest struct {
	ClientID      string
	VehicleID     string
	AppointmentID string
	Reason        string
	ClientSource  string
	Notes         string
	EntryDate     *time.Time
	EmployeeIDs   []string
}

type UpdateRepairOrderRequest struct {
	Reason       string
	ClientSource string
	EntryDate    *time.Time
}

type ListRepairOrderRequest struct {
	pagination.Pagination
	Status OrderStatus `form:"status"`
	Query  string      `form:"q"`
}

type ListRepairOrderResponse struct {
	Orders   []*RepairOrder       `json:"orders"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateRepairOrderRequest) (RepairOrder, error)
	Update(ctx context.Context, id string, req UpdateRepairOrderRequest) (RepairOrder, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (RepairOrder, error)
	UpdateTitle(ctx context.Context, id string, title string) (RepairOrder, error)
	UpdateNotes(ctx context.Context, id string, notes string) (RepairOrder, error)
	AssignEmployees(ctx context.Context, id string, employeeIDs []string) (RepairOrder, error)
	List(ctx context.Context, req ListRepairOrderRequest) (ListRepairOrderResponse, error)
	GetByID(ctx context.Context, id string) (RepairOrder, error)
	WorkHistory(ctx context.Context, vehicleID string) ([]RepairOrder, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound           = errors.New("repair_order_not_found")
	ErrInvalidID          = errors.New("invalid_repair_order_id")
	ErrInvalidStatus      = errors.New("invalid_repair_order_status")
	ErrIntakeNotReentrant = errors.New("repair_order_intake_status_final")
	ErrInvalidTitle       = errors.New("invalid_repair_order_title")
	ErrVehicleMismatch    = errors.New("vehicle_not_owned_by_client")
	ErrHasInvoice         = errors.New("repair_order_has_invoice")
)
