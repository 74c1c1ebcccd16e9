package domain

import (
	"context"
	"errors"
	"time"
)

type InspectionItemInput struct {
	Name    string
	Status  ItemStatus
	Comment string
}

type CreateInspectionRequest struct {
	RepairOrderID string
	EmployeeID    string
	PerformedAt   *time.Time
	Notes         string
	Items         []InspectionItemInput
}

type UpdateInspectionRequest struct {
	Notes string
	Items []InspectionItemInput
}

type Service interface {
	Create(ctx context.Context, req CreateInspectionRequest) (Inspection, error)
	Update(ctx context.Context, id string, req UpdateInspectionRequest) (Inspection, error)
	GetByID(ctx context.Context, id string) (Inspection, error)
	ListByRepairOrder(ctx context.Context, repairOrderID string) ([]Inspection, error)
	Issues(ctx context.Context, repairOrderID string) ([]InspectionItem, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound          = errors.New("inspection_not_found")
	ErrInvalidID         = errors.New("invalid_inspection_id")
	ErrInvalidItem       = errors.New("invalid_inspection_item")
	ErrInvalidItemStatus = errors.New("invalid_inspection_item_status")
)
