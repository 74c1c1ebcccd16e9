package service

import (
	"context"
	"strings"
	"time"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/autotech/workshop/pkg/db"
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
		log:   p.Log.Named("vehicle.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVehicleRequest) (domain.Vehicle, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Vehicle{}, clientdomain.ErrInvalidID
	}

	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	if plate == "" {
		return domain.Vehicle{}, domain.ErrInvalidPlate
	}
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.Model) == "" {
		return domain.Vehicle{}, domain.ErrInvalidBrand
	}

	var created domain.Vehicle
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&clientdomain.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return clientdomain.ErrNotFound
		}

		now := time.Now().UTC()
		vehicle := domain.Vehicle{
			ID:            s.genID.Generate(),
			ClientID:      clientID,
			Plate:         plate,
			ChassisNumber: strings.TrimSpace(req.ChassisNumber),
			EngineNumber:  strings.TrimSpace(req.EngineNumber),
			Brand:         strings.TrimSpace(req.Brand),
			Model:         strings.TrimSpace(req.Model),
			Year:          req.Year,
			VehicleType:   strings.TrimSpace(req.VehicleType),
			Observations:  strings.TrimSpace(req.Observations),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Insert(ctx, tx, &vehicle); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicatePlate
			}
			return err
		}
		created = vehicle
		return nil
	})
	if err != nil {
		return domain.Vehicle{}, err
	}

	s.log.Info("created vehicle",
		zap.String("id", created.ID.String()),
		zap.String("plate", created.Plate),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateVehicleRequest) (domain.Vehicle, error) {
	vehicleID, err := parseID(id)
	if err != nil {
		return domain.Vehicle{}, err
	}

	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	if plate == "" {
		return domain.Vehicle{}, domain.ErrInvalidPlate
	}

	var updated domain.Vehicle
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		existing.Plate = plate
		existing.ChassisNumber = strings.TrimSpace(req.ChassisNumber)
		existing.EngineNumber = strings.TrimSpace(req.EngineNumber)
		existing.Brand = strings.TrimSpace(req.Brand)
		existing.Model = strings.TrimSpace(req.Model)
		existing.Year = req.Year
		existing.VehicleType = strings.TrimSpace(req.VehicleType)
		existing.Observations = strings.TrimSpace(req.Observations)
		existing.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, existing); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicatePlate
			}
			return err
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return domain.Vehicle{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVehicleRequest) (domain.ListVehicleResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := domain.ListVehicleFilter{Plate: strings.ToUpper(strings.TrimSpace(req.Plate))}
	if strings.TrimSpace(req.ClientID) != "" {
		clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
		if err != nil {
			return domain.ListVehicleResponse{}, clientdomain.ErrInvalidID
		}
		filter.ClientID = clientID
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListVehicleResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(vehicle *domain.Vehicle) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: vehicle.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	vehicles := make([]domain.Vehicle, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		vehicles = append(vehicles, *item)
	}

	resp := domain.ListVehicleResponse{Vehicles: vehicles}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	vehicleID, err := parseID(id)
	if err != nil {
		return domain.Vehicle{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if item == nil {
		return domain.Vehicle{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]domain.Vehicle, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(clientID))
	if err != nil || id == 0 {
		return nil, clientdomain.ErrInvalidID
	}

	items, err := s.repo.ListByClient(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	vehicles := make([]domain.Vehicle, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		vehicles = append(vehicles, *item)
	}
	return vehicles, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	vehicleID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return s.repo.Delete(ctx, tx, vehicleID)
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
