package service

import (
	"context"
	"strings"
	"time"

	"github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/pkg/db/pagination"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	if err := validate(req); err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:             s.genID.Generate(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		DNI:            strings.TrimSpace(req.DNI),
		CommercialName: strings.TrimSpace(req.CommercialName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		Province:       strings.TrimSpace(req.Province),
		Country:        strings.TrimSpace(req.Country),
		ClientType:     req.ClientType,
		EntryDate:      req.EntryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUniqueDNI(tx, client.DNI, 0); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, &client)
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.log.Info("created client", zap.String("id", client.ID.String()))
	return client, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateClientRequest) (domain.Client, error) {
	clientID, err := parseID(id)
	if err != nil {
		return domain.Client{}, err
	}
	if err := validate(req); err != nil {
		return domain.Client{}, err
	}

	var updated domain.Client
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, clientID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		if err := requireUniqueDNI(tx, strings.TrimSpace(req.DNI), clientID); err != nil {
			return err
		}

		existing.FirstName = strings.TrimSpace(req.FirstName)
		existing.LastName = strings.TrimSpace(req.LastName)
		existing.DNI = strings.TrimSpace(req.DNI)
		existing.CommercialName = strings.TrimSpace(req.CommercialName)
		existing.Email = strings.TrimSpace(req.Email)
		existing.Phone = strings.TrimSpace(req.Phone)
		existing.Address = strings.TrimSpace(req.Address)
		existing.Province = strings.TrimSpace(req.Province)
		existing.Country = strings.TrimSpace(req.Country)
		existing.ClientType = req.ClientType
		existing.EntryDate = req.EntryDate
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, existing); err != nil {
			return err
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.log.Info("updated client", zap.String("id", updated.ID.String()))
	return updated, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	items, err := s.repo.List(ctx, s.db, domain.ListClientFilter{
		Query:      strings.TrimSpace(req.Query),
		ClientType: req.ClientType,
	}, pagination.Pagination{PageToken: req.PageToken, PageSize: pageSize})
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: client.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	resp := domain.ListClientResponse{Clients: clients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Client, error) {
	clientID, err := parseID(id)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	clientID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, clientID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return s.repo.Delete(ctx, tx, clientID)
	})
}

func validate(req domain.CreateClientRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return domain.ErrInvalidName
	}
	if !domain.ValidType(req.ClientType) {
		return domain.ErrInvalidClientType
	}
	return nil
}

// requireUniqueDNI rejects a DNI already held by another client. Empty
// DNIs are allowed and never collide.
func requireUniqueDNI(tx *gorm.DB, dni string, selfID snowflake.ID) error {
	if dni == "" {
		return nil
	}
	var count int64
	query := tx.Model(&domain.Client{}).Where("dni = ?", dni)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDuplicateDNI
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
