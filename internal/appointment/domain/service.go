package domain

import (
	"context"
	"errors"
	"time"
)

type CreateAppointmentRequest struct {
	ClientID    string
	VehicleID   string
	ScheduledAt time.Time
	EndsAt      *time.Time
	Reason      string
	Notes       string
}

type UpdateAppointmentRequest struct {
	ScheduledAt time.Time
	EndsAt      *time.Time
	Reason      string
	Notes       string
	Status      AppointmentStatus
}

// ListAppointmentFilter narrows List to a scheduling window or client.
type ListAppointmentFilter struct {
	ClientID string
	From     *time.Time
	To       *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateAppointmentRequest) (Appointment, error)
	Update(ctx context.Context, id string, req UpdateAppointmentRequest) (Appointment, error)
	List(ctx context.Context, filter ListAppointmentFilter) ([]Appointment, error)
	GetByID(ctx context.Context, id string) (Appointment, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound       = errors.New("appointment_not_found")
	ErrInvalidID      = errors.New("invalid_appointment_id")
	ErrInvalidTime    = errors.New("invalid_appointment_time")
	ErrInvalidStatus  = errors.New("invalid_appointment_status")
	ErrClientRequired = errors.New("appointment_client_required")
)
