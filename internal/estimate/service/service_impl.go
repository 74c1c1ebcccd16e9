package service

import (
	"context"
	"strings"
	"time"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/estimate/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/autotech/workshop/pkg/db"
	"github.com/autotech/workshop/pkg/db/pagination"
	"github.com/autotech/workshop/pkg/money"
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
		log:   p.Log.Named("estimate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEstimateRequest) (domain.Estimate, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return domain.Estimate{}, err
	}
	vehicleID, err := parseID(req.VehicleID)
	if err != nil {
		return domain.Estimate{}, err
	}
	if !money.ValidPercentage(req.DiscountPct) || !money.ValidPercentage(req.TaxPct) {
		return domain.Estimate{}, domain.ErrInvalidPercentage
	}

	var repairOrderID *snowflake.ID
	if ro := strings.TrimSpace(req.RepairOrderID); ro != "" {
		parsed, err := parseID(ro)
		if err != nil {
			return domain.Estimate{}, err
		}
		repairOrderID = &parsed
	}

	var created domain.Estimate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&clientdomain.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return clientdomain.ErrNotFound
		}
		if err := tx.Model(&vehicledomain.Vehicle{}).Where("id = ?", vehicleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return vehicledomain.ErrNotFound
		}
		if repairOrderID != nil {
			if err := tx.Model(&repairorderdomain.RepairOrder{}).
				Where("id = ?", *repairOrderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return repairorderdomain.ErrNotFound
			}
		}

		now := time.Now().UTC()
		created = domain.Estimate{
			ID:            s.genID.Generate(),
			ClientID:      clientID,
			VehicleID:     vehicleID,
			RepairOrderID: repairOrderID,
			Status:        domain.StatusPending,
			DiscountPct:   req.DiscountPct,
			TaxPct:        req.TaxPct,
			Notes:         strings.TrimSpace(req.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		services, products, err := s.buildItems(created.ID, req.ServiceItems, req.ProductItems)
		if err != nil {
			return err
		}
		created.ServiceItems = services
		created.ProductItems = products
		created.Total = created.Breakdown().Total

		return s.repo.Insert(ctx, tx, &created)
	})
	if err != nil {
		return domain.Estimate{}, err
	}

	s.log.Info("created estimate",
		zap.String("id", created.ID.String()),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateEstimateRequest) (domain.Estimate, error) {
	estimateID, err := parseID(id)
	if err != nil {
		return domain.Estimate{}, err
	}
	if !money.ValidPercentage(req.DiscountPct) || !money.ValidPercentage(req.TaxPct) {
		return domain.Estimate{}, domain.ErrInvalidPercentage
	}

	var updated domain.Estimate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		estimate, err := s.repo.FindByID(ctx, tx, estimateID)
		if err != nil {
			return err
		}
		if estimate.Status != domain.StatusPending {
			return domain.ErrNotPending
		}

		services, products, err := s.buildItems(estimate.ID, req.ServiceItems, req.ProductItems)
		if err != nil {
			return err
		}
		if err := s.repo.ReplaceItems(ctx, tx, estimate.ID, services, products); err != nil {
			return err
		}

		estimate.DiscountPct = req.DiscountPct
		estimate.TaxPct = req.TaxPct
		estimate.Notes = strings.TrimSpace(req.Notes)
		estimate.ServiceItems = services
		estimate.ProductItems = products
		estimate.Total = estimate.Breakdown().Total
		estimate.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, estimate); err != nil {
			return err
		}
		updated = *estimate
		return nil
	})
	if err != nil {
		return domain.Estimate{}, err
	}
	return updated, nil
}

// Approve moves a PENDING estimate to ACCEPTED. Any other starting
// status fails loudly, including a second Approve call.
func (s *Service) Approve(ctx context.Context, id string) (domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusAccepted)
}

// Reject moves a PENDING estimate to REJECTED.
func (s *Service) Reject(ctx context.Context, id string) (domain.Estimate, error) {
	return s.transition(ctx, id, domain.StatusRejected)
}

func (s *Service) transition(ctx context.Context, id string, target domain.EstimateStatus) (domain.Estimate, error) {
	estimateID, err := parseID(id)
	if err != nil {
		return domain.Estimate{}, err
	}

	var updated domain.Estimate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		estimate, err := s.repo.FindByID(ctx, db.LockForUpdate(tx), estimateID)
		if err != nil {
			return err
		}
		if estimate.Status != domain.StatusPending {
			return domain.ErrNotPending
		}

		estimate.Status = target
		estimate.UpdatedAt = time.Now().UTC()
		if err := s.repo.Save(ctx, tx, estimate); err != nil {
			return err
		}
		updated = *estimate
		return nil
	})
	if err != nil {
		return domain.Estimate{}, err
	}

	s.log.Info("estimate status changed",
		zap.String("id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// ConvertToInvoiceData projects the estimate into the fields an invoice
// created from it would carry. It never mutates the estimate. Only
// ACCEPTED estimates can be billed, so the same gate applies here.
func (s *Service) ConvertToInvoiceData(ctx context.Context, id string) (domain.InvoiceData, error) {
	estimateID, err := parseID(id)
	if err != nil {
		return domain.InvoiceData{}, err
	}

	estimate, err := s.repo.FindByID(ctx, s.db, estimateID)
	if err != nil {
		return domain.InvoiceData{}, err
	}
	if estimate.Status != domain.StatusAccepted {
		return domain.InvoiceData{}, domain.ErrNotAccepted
	}

	data := domain.InvoiceData{
		EstimateID:  estimate.ID.String(),
		ClientID:    estimate.ClientID.String(),
		VehicleID:   estimate.VehicleID.String(),
		DiscountPct: estimate.DiscountPct,
		TaxPct:      estimate.TaxPct,
		Total:       estimate.Total,
	}
	if estimate.RepairOrderID != nil {
		data.RepairOrderID = estimate.RepairOrderID.String()
	}
	for _, item := range estimate.ServiceItems {
		data.ServiceItems = append(data.ServiceItems, domain.ServiceItemInput{
			Name:  item.Name,
			Price: item.Price,
		})
	}
	for _, item := range estimate.ProductItems {
		data.ProductItems = append(data.ProductItems, domain.ProductItemInput{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return data, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEstimateRequest) (domain.ListEstimateResponse, error) {
	if req.Status != "" {
		switch req.Status {
		case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected:
		default:
			return domain.ListEstimateResponse{}, domain.ErrInvalidStatus
		}
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	estimates, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return domain.ListEstimateResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(estimates, req.PageSize, func(e *domain.Estimate) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: e.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore {
		estimates = estimates[:req.PageSize]
	}

	return domain.ListEstimateResponse{Estimates: estimates, PageInfo: pageInfo}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Estimate, error) {
	estimateID, err := parseID(id)
	if err != nil {
		return domain.Estimate{}, err
	}
	estimate, err := s.repo.FindByID(ctx, s.db, estimateID)
	if err != nil {
		return domain.Estimate{}, err
	}
	return *estimate, nil
}

// Delete removes a PENDING estimate and its line items. An estimate an
// invoice was created from stays, whatever its status.
func (s *Service) Delete(ctx context.Context, id string) error {
	estimateID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		estimate, err := s.repo.FindByID(ctx, tx, estimateID)
		if err != nil {
			return err
		}
		if estimate.Status != domain.StatusPending {
			return domain.ErrNotPending
		}

		var invoices int64
		if err := tx.Table("invoices").
			Where("estimate_id = ?", estimateID).
			Count(&invoices).Error; err != nil {
			return err
		}
		if invoices > 0 {
			return domain.ErrHasInvoice
		}

		return s.repo.Delete(ctx, tx, estimateID)
	})
}

func (s *Service) buildItems(estimateID snowflake.ID, serviceInputs []domain.ServiceItemInput, productInputs []domain.ProductItemInput) ([]domain.ServiceItem, []domain.ProductItem, error) {
	services := make([]domain.ServiceItem, 0, len(serviceInputs))
	for _, input := range serviceInputs {
		name := strings.TrimSpace(input.Name)
		if name == "" || input.Price.IsNegative() {
			return nil, nil, domain.ErrInvalidItem
		}
		services = append(services, domain.ServiceItem{
			ID:         s.genID.Generate(),
			EstimateID: estimateID,
			Name:       name,
			Price:      input.Price.Round(2),
		})
	}

	products := make([]domain.ProductItem, 0, len(productInputs))
	for _, input := range productInputs {
		name := strings.TrimSpace(input.Name)
		if name == "" || input.Quantity < 1 || input.UnitPrice.IsNegative() {
			return nil, nil, domain.ErrInvalidItem
		}
		products = append(products, domain.ProductItem{
			ID:         s.genID.Generate(),
			EstimateID: estimateID,
			Name:       name,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice.Round(2),
			TotalPrice: money.LineTotal(input.Quantity, input.UnitPrice),
		})
	}

	return services, products, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
