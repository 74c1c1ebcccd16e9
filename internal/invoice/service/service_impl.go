package service

import (
	"context"
	"strings"
	"time"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	"github.com/autotech/workshop/internal/invoice/domain"
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
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !money.ValidPercentage(req.DiscountPct) || !money.ValidPercentage(req.TaxPct) {
		return domain.Invoice{}, domain.ErrInvalidPercentage
	}

	var vehicleID *snowflake.ID
	if v := strings.TrimSpace(req.VehicleID); v != "" {
		parsed, err := parseID(v)
		if err != nil {
			return domain.Invoice{}, err
		}
		vehicleID = &parsed
	}

	var created domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := s.requireClient(tx, clientID)
		if err != nil {
			return err
		}
		if client.ClientType == clientdomain.ClientTypeWalkIn && len(req.ServiceItems) > 0 {
			return domain.ErrWalkInServices
		}
		if vehicleID != nil {
			if err := s.requireVehicle(tx, *vehicleID); err != nil {
				return err
			}
		}

		invoice, err := s.newInvoice(clientID, vehicleID, nil, nil, req)
		if err != nil {
			return err
		}
		created = invoice
		return s.repo.Insert(ctx, tx, &created)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("created invoice",
		zap.String("id", created.ID.String()),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

// CreateFromEstimate bills an accepted estimate. The estimate's line
// items are duplicated into invoice-owned rows, so later edits to
// either side never leak across.
func (s *Service) CreateFromEstimate(ctx context.Context, estimateID string) (domain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(estimateID))
	if err != nil || id == 0 {
		return domain.Invoice{}, estimatedomain.ErrInvalidID
	}

	var created domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var estimate estimatedomain.Estimate
		if err := db.LockForUpdate(tx).Preload("ServiceItems").Preload("ProductItems").
			First(&estimate, "id = ?", id).Error; err != nil {
			return estimatedomain.ErrNotFound
		}
		if estimate.Status != estimatedomain.StatusAccepted {
			return estimatedomain.ErrNotAccepted
		}

		if _, err := s.repo.FindByEstimate(ctx, tx, estimate.ID); err == nil {
			return domain.ErrEstimateBilled
		} else if err != domain.ErrNotFound {
			return err
		}

		now := time.Now().UTC()
		created = domain.Invoice{
			ID:            s.genID.Generate(),
			ClientID:      estimate.ClientID,
			VehicleID:     &estimate.VehicleID,
			RepairOrderID: estimate.RepairOrderID,
			EstimateID:    &estimate.ID,
			DiscountPct:   estimate.DiscountPct,
			TaxPct:        estimate.TaxPct,
			IssuedAt:      now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, item := range estimate.ServiceItems {
			created.ServiceItems = append(created.ServiceItems, domain.ServiceItem{
				ID:        s.genID.Generate(),
				InvoiceID: created.ID,
				Name:      item.Name,
				Price:     item.Price,
			})
		}
		for _, item := range estimate.ProductItems {
			created.ProductItems = append(created.ProductItems, domain.ProductItem{
				ID:         s.genID.Generate(),
				InvoiceID:  created.ID,
				Name:       item.Name,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.TotalPrice,
			})
		}
		created.Total = created.Breakdown().Total
		created.Status = domain.StatusPending

		return s.repo.Insert(ctx, tx, &created)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("created invoice from estimate",
		zap.String("id", created.ID.String()),
		zap.String("estimate_id", estimateID),
	)
	return created, nil
}

// CreateFromRepairOrder bills a repair order directly, without an
// estimate in between. Client and vehicle come from the order.
func (s *Service) CreateFromRepairOrder(ctx context.Context, repairOrderID string, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(repairOrderID))
	if err != nil || orderID == 0 {
		return domain.Invoice{}, repairorderdomain.ErrInvalidID
	}
	if !money.ValidPercentage(req.DiscountPct) || !money.ValidPercentage(req.TaxPct) {
		return domain.Invoice{}, domain.ErrInvalidPercentage
	}

	var created domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order repairorderdomain.RepairOrder
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return repairorderdomain.ErrNotFound
		}

		client, err := s.requireClient(tx, order.ClientID)
		if err != nil {
			return err
		}
		if client.ClientType == clientdomain.ClientTypeWalkIn && len(req.ServiceItems) > 0 {
			return domain.ErrWalkInServices
		}

		invoice, err := s.newInvoice(order.ClientID, &order.VehicleID, &order.ID, nil, req)
		if err != nil {
			return err
		}
		created = invoice
		return s.repo.Insert(ctx, tx, &created)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("created invoice from repair order",
		zap.String("id", created.ID.String()),
		zap.String("repair_order_id", repairOrderID),
	)
	return created, nil
}

// Update replaces items, discount and tax at any status, then re-derives
// the status from the payments already on file. A PAID invoice whose
// total grows past its payments drops back to PARTIALLY_PAID. The
// invoice row is locked so a concurrent ledger write cannot slip a
// stale sum into the derived status.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !money.ValidPercentage(req.DiscountPct) || !money.ValidPercentage(req.TaxPct) {
		return domain.Invoice{}, domain.ErrInvalidPercentage
	}

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, db.LockForUpdate(tx), invoiceID)
		if err != nil {
			return err
		}

		client, err := s.requireClient(tx, invoice.ClientID)
		if err != nil {
			return err
		}
		if client.ClientType == clientdomain.ClientTypeWalkIn && len(req.ServiceItems) > 0 {
			return domain.ErrWalkInServices
		}

		services, products, err := s.buildItems(invoice.ID, req.ServiceItems, req.ProductItems)
		if err != nil {
			return err
		}
		if err := s.repo.ReplaceItems(ctx, tx, invoice.ID, services, products); err != nil {
			return err
		}

		invoice.DiscountPct = req.DiscountPct
		invoice.TaxPct = req.TaxPct
		invoice.Notes = strings.TrimSpace(req.Notes)
		invoice.ServiceItems = services
		invoice.ProductItems = products
		invoice.Total = invoice.Breakdown().Total

		totalPaid, err := s.repo.TotalPaid(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}
		invoice.Status = domain.DeriveStatus(invoice.Total, totalPaid)
		invoice.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	if req.Status != "" {
		switch req.Status {
		case domain.StatusPending, domain.StatusPartiallyPaid, domain.StatusPaid:
		default:
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	invoices, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(invoices, req.PageSize, func(i *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: i.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore {
		invoices = invoices[:req.PageSize]
	}

	return domain.ListInvoiceResponse{Invoices: invoices, PageInfo: pageInfo}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

// Delete refuses to remove an invoice tied to a repair order: the
// financial record must outlive the work record. Unlinked invoices are
// removed with their items and payments in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.RepairOrderID != nil {
			return domain.ErrLinkedToOrder
		}
		return s.repo.Delete(ctx, tx, invoiceID)
	})
}

func (s *Service) newInvoice(clientID snowflake.ID, vehicleID, repairOrderID, estimateID *snowflake.ID, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	now := time.Now().UTC()
	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		ClientID:      clientID,
		VehicleID:     vehicleID,
		RepairOrderID: repairOrderID,
		EstimateID:    estimateID,
		DiscountPct:   req.DiscountPct,
		TaxPct:        req.TaxPct,
		IssuedAt:      now,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	services, products, err := s.buildItems(invoice.ID, req.ServiceItems, req.ProductItems)
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.ServiceItems = services
	invoice.ProductItems = products
	invoice.Total = invoice.Breakdown().Total
	invoice.Status = domain.StatusPending

	return invoice, nil
}

func (s *Service) buildItems(invoiceID snowflake.ID, serviceInputs []domain.ServiceItemInput, productInputs []domain.ProductItemInput) ([]domain.ServiceItem, []domain.ProductItem, error) {
	services := make([]domain.ServiceItem, 0, len(serviceInputs))
	for _, input := range serviceInputs {
		name := strings.TrimSpace(input.Name)
		if name == "" || input.Price.IsNegative() {
			return nil, nil, domain.ErrInvalidItem
		}
		services = append(services, domain.ServiceItem{
			ID:        s.genID.Generate(),
			InvoiceID: invoiceID,
			Name:      name,
			Price:     input.Price.Round(2),
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
			InvoiceID:  invoiceID,
			Name:       name,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice.Round(2),
			TotalPrice: money.LineTotal(input.Quantity, input.UnitPrice),
		})
	}

	return services, products, nil
}

func (s *Service) requireClient(tx *gorm.DB, id snowflake.ID) (clientdomain.Client, error) {
	var client clientdomain.Client
	if err := tx.First(&client, "id = ?", id).Error; err != nil {
		return clientdomain.Client{}, clientdomain.ErrNotFound
	}
	return client, nil
}

func (s *Service) requireVehicle(tx *gorm.DB, id snowflake.ID) error {
	var count int64
	if err := tx.Model(&vehicledomain.Vehicle{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return vehicledomain.ErrNotFound
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
