package domain

import (
	"context"
	"errors"
	"time"
)

type CreateEmployeeRequest struct {
	FirstName string
	LastName  string
	DNI       string
	Email     string
	Phone     string
	Address   string
	City      string
	Province  string
	Country   string
	EntryDate *time.Time
	Status    EmployeeStatus
}

type UpdateEmployeeRequest = CreateEmployeeRequest

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound      = errors.New("employee_not_found")
	ErrInvalidID     = errors.New("invalid_employee_id")
	ErrInvalidName   = errors.New("invalid_employee_name")
	ErrInvalidStatus = errors.New("invalid_employee_status")
)
