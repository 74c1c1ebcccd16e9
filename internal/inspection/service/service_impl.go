package service

import (
	"context"
	"errors"
	"strings"
	"time"

	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	"github.com/autotech/workshop/internal/inspection/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
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
		log:   p.Log.Named("inspection.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInspectionRequest) (domain.Inspection, error) {
	repairOrderID, err := parseID(req.RepairOrderID)
	if err != nil {
		return domain.Inspection{}, err
	}

	var employeeID *snowflake.ID
	if e := strings.TrimSpace(req.EmployeeID); e != "" {
		parsed, err := parseID(e)
		if err != nil {
			return domain.Inspection{}, err
		}
		employeeID = &parsed
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return domain.Inspection{}, err
	}

	var created domain.Inspection
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&repairorderdomain.RepairOrder{}).
			Where("id = ?", repairOrderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repairorderdomain.ErrNotFound
		}

		if employeeID != nil {
			if err := tx.Model(&employeedomain.Employee{}).
				Where("id = ?", *employeeID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return employeedomain.ErrNotFound
			}
		}

		performedAt := time.Now().UTC()
		if req.PerformedAt != nil {
			performedAt = req.PerformedAt.UTC()
		}

		now := time.Now().UTC()
		created = domain.Inspection{
			ID:            s.genID.Generate(),
			RepairOrderID: repairOrderID,
			EmployeeID:    employeeID,
			PerformedAt:   performedAt,
			Notes:         strings.TrimSpace(req.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for i := range items {
			items[i].InspectionID = created.ID
		}
		created.Items = items

		return tx.Create(&created).Error
	})
	if err != nil {
		return domain.Inspection{}, err
	}

	s.log.Info("created inspection", zap.String("id", created.ID.String()))
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateInspectionRequest) (domain.Inspection, error) {
	inspectionID, err := parseID(id)
	if err != nil {
		return domain.Inspection{}, err
	}

	items, err := s.buildItems(req.Items)
	if err != nil {
		return domain.Inspection{}, err
	}

	var updated domain.Inspection
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Inspection
		if err := tx.First(&existing, "id = ?", inspectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&domain.InspectionItem{}, "inspection_id = ?", existing.ID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InspectionID = existing.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		existing.Notes = strings.TrimSpace(req.Notes)
		existing.UpdatedAt = time.Now().UTC()
		if err := tx.Omit("Items").Save(&existing).Error; err != nil {
			return err
		}

		existing.Items = items
		updated = existing
		return nil
	})
	if err != nil {
		return domain.Inspection{}, err
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Inspection, error) {
	inspectionID, err := parseID(id)
	if err != nil {
		return domain.Inspection{}, err
	}

	var inspection domain.Inspection
	err = s.db.WithContext(ctx).
		Preload("Items").
		First(&inspection, "id = ?", inspectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Inspection{}, domain.ErrNotFound
		}
		return domain.Inspection{}, err
	}
	return inspection, nil
}

func (s *Service) ListByRepairOrder(ctx context.Context, repairOrderID string) ([]domain.Inspection, error) {
	orderID, err := parseID(repairOrderID)
	if err != nil {
		return nil, err
	}

	var inspections []domain.Inspection
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where("repair_order_id = ?", orderID).
		Order("performed_at desc").
		Find(&inspections).Error
	return inspections, err
}

// Issues returns the CHECK and PROBLEM items across every inspection of
// the order, most recent inspection first.
func (s *Service) Issues(ctx context.Context, repairOrderID string) ([]domain.InspectionItem, error) {
	inspections, err := s.ListByRepairOrder(ctx, repairOrderID)
	if err != nil {
		return nil, err
	}

	issues := make([]domain.InspectionItem, 0)
	for _, inspection := range inspections {
		for _, item := range inspection.Items {
			if item.IsIssue() {
				issues = append(issues, item)
			}
		}
	}
	return issues, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	inspectionID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.InspectionItem{}, "inspection_id = ?", inspectionID).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Inspection{}, "id = ?", inspectionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Service) buildItems(inputs []domain.InspectionItemInput) ([]domain.InspectionItem, error) {
	items := make([]domain.InspectionItem, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, domain.ErrInvalidItem
		}
		if !domain.ValidItemStatus(input.Status) {
			return nil, domain.ErrInvalidItemStatus
		}
		items = append(items, domain.InspectionItem{
			ID:      s.genID.Generate(),
			Name:    name,
			Status:  input.Status,
			Comment: strings.TrimSpace(input.Comment),
		})
	}
	return items, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
