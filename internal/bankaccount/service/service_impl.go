package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autotech/workshop/internal/bankaccount/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bankaccount.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBankAccountRequest) (domain.BankAccount, error) {
	if strings.TrimSpace(req.Alias) == "" {
		return domain.BankAccount{}, domain.ErrInvalidAlias
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return domain.BankAccount{}, domain.ErrInvalidAccount
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		ID:            s.genID.Generate(),
		Alias:         strings.TrimSpace(req.Alias),
		BankName:      strings.TrimSpace(req.BankName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Holder:        strings.TrimSpace(req.Holder),
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return domain.BankAccount{}, err
	}

	s.log.Info("created bank account", zap.String("id", account.ID.String()))
	return account, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateBankAccountRequest) (domain.BankAccount, error) {
	accountID, err := parseID(id)
	if err != nil {
		return domain.BankAccount{}, err
	}
	if strings.TrimSpace(req.Alias) == "" {
		return domain.BankAccount{}, domain.ErrInvalidAlias
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return domain.BankAccount{}, domain.ErrInvalidAccount
	}

	var updated domain.BankAccount
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.BankAccount
		if err := tx.First(&existing, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		existing.Alias = strings.TrimSpace(req.Alias)
		existing.BankName = strings.TrimSpace(req.BankName)
		existing.AccountNumber = strings.TrimSpace(req.AccountNumber)
		existing.Holder = strings.TrimSpace(req.Holder)
		if req.Active != nil {
			existing.Active = *req.Active
		}
		existing.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return domain.BankAccount{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]domain.BankAccount, error) {
	var accounts []domain.BankAccount
	err := s.db.WithContext(ctx).
		Order("alias asc").
		Find(&accounts).Error
	return accounts, err
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.BankAccount, error) {
	accountID, err := parseID(id)
	if err != nil {
		return domain.BankAccount{}, err
	}

	var account domain.BankAccount
	if err := s.db.WithContext(ctx).First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BankAccount{}, domain.ErrNotFound
		}
		return domain.BankAccount{}, err
	}
	return account, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	accountID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referencing int64
		if err := tx.Table("payments").
			Where("bank_account_id = ?", accountID).
			Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return domain.ErrInUse
		}

		result := tx.Delete(&domain.BankAccount{}, "id = ?", accountID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
