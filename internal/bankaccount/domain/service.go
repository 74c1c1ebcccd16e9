package domain

import (
	"context"
	"errors"
)

type CreateBankAccountRequest struct {
	Alias         string
	BankName      string
	AccountNumber string
	Holder        string
	Active        *bool
}

type UpdateBankAccountRequest = CreateBankAccountRequest

type Service interface {
	Create(ctx context.Context, req CreateBankAccountRequest) (BankAccount, error)
	Update(ctx context.Context, id string, req UpdateBankAccountRequest) (BankAccount, error)
	List(ctx context.Context) ([]BankAccount, error)
	GetByID(ctx context.Context, id string) (BankAccount, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound       = errors.New("bank_account_not_found")
	ErrInvalidID      = errors.New("invalid_bank_account_id")
	ErrInvalidAlias   = errors.New("invalid_bank_account_alias")
	ErrInvalidAccount = errors.New("invalid_bank_account_number")
	ErrInUse          = errors.New("bank_account_in_use")
)
