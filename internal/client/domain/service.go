package domain

import (
	"context"
	"errors"
	"time"

	"github.com/autotech/workshop/pkg/db/pagination"
)

type CreateClientRequest struct {
	FirstName      string
	LastName       string
	DNI            string
	CommercialName string
	Email          string
	Phone          string
	Address        string
	Province       string
	Country        string
	ClientType     ClientType
	EntryDate      *time.Time
}

type UpdateClientRequest = CreateClientRequest

type ListClientRequest struct {
	PageToken  string
	PageSize   int
	Query      string
	ClientType *ClientType
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (Client, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound          = errors.New("client_not_found")
	ErrInvalidID         = errors.New("invalid_client_id")
	ErrInvalidName       = errors.New("invalid_client_name")
	ErrInvalidClientType = errors.New("invalid_client_type")
	ErrDuplicateDNI      = errors.New("duplicate_client_dni")
)

// ValidType reports whether t is a known client type.
func ValidType(t ClientType) bool {
	switch t {
	case ClientTypePersonal, ClientTypeCompany, ClientTypeWalkIn:
		return true
	default:
		return false
	}
}
