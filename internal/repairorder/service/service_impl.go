package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	"github.com/autotech/workshop/internal/repairorder/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
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
		log:   p.Log.Named("repairorder.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRepairOrderRequest) (domain.RepairOrder, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return domain.RepairOrder{}, err
	}
	vehicleID, err := parseID(req.VehicleID)
	if err != nil {
		return domain.RepairOrder{}, err
	}

	var appointmentID *snowflake.ID
	if a := strings.TrimSpace(req.AppointmentID); a != "" {
		parsed, err := parseID(a)
		if err != nil {
			return domain.RepairOrder{}, err
		}
		appointmentID = &parsed
	}

	employeeIDs, err := parseIDs(req.EmployeeIDs)
	if err != nil {
		return domain.RepairOrder{}, err
	}

	var created domain.RepairOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client clientdomain.Client
		if err := tx.First(&client, "id = ?", clientID).Error; err != nil {
			return clientdomain.ErrNotFound
		}

		var vehicle vehicledomain.Vehicle
		if err := tx.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
			return vehicledomain.ErrNotFound
		}
		if vehicle.ClientID != client.ID {
			return domain.ErrVehicleMismatch
		}

		if appointmentID != nil {
			var count int64
			if err := tx.Model(&appointmentdomain.Appointment{}).
				Where("id = ?", *appointmentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return appointmentdomain.ErrNotFound
			}
		}

		if err := requireEmployees(tx, employeeIDs); err != nil {
			return err
		}

		number, err := s.repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}

		entryDate := time.Now().UTC()
		if req.EntryDate != nil {
			entryDate = req.EntryDate.UTC()
		}

		now := time.Now().UTC()
		created = domain.RepairOrder{
			ID:            s.genID.Generate(),
			Number:        number,
			Title:         buildTitle(number, client.LastName, vehicle.Plate),
			ClientID:      client.ID,
			VehicleID:     vehicle.ID,
			AppointmentID: appointmentID,
			Reason:        strings.TrimSpace(req.Reason),
			ClientSource:  strings.TrimSpace(req.ClientSource),
			Notes:         strings.TrimSpace(req.Notes),
			Status:        domain.StatusVehicleIntake,
			EntryDate:     entryDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created.Employees = assignments(created.ID, employeeIDs, now)

		return s.repo.Insert(ctx, tx, &created)
	})
	if err != nil {
		return domain.RepairOrder{}, err
	}

	s.log.Info("created repair order",
		zap.String("id", created.ID.String()),
		zap.Int64("number", created.Number),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRepairOrderRequest) (domain.RepairOrder, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.RepairOrder{}, err
	}

	var updated domain.RepairOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		order.Reason = strings.TrimSpace(req.Reason)
		order.ClientSource = strings.TrimSpace(req.ClientSource)
		if req.EntryDate != nil {
			order.EntryDate = req.EntryDate.UTC()
		}
		order.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}
		updated = *order
		return nil
	})
	if err != nil {
		return domain.RepairOrder{}, err
	}
	return updated, nil
}

// UpdateStatus moves the order along its workflow. The two intake states
// are entry-only: once an order has left them it can never return.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.RepairOrder, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.RepairOrder{}, err
	}
	if !domain.ValidStatus(status) {
		return domain.RepairOrder{}, domain.ErrInvalidStatus
	}

	var updated domain.RepairOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if domain.IntakeStatus(status) && !domain.IntakeStatus(order.Status) {
			return domain.ErrIntakeNotReentrant
		}

		order.Status = status
		if status == domain.StatusDelivered {
			now := time.Now().UTC()
			order.DeliveredAt = &now
		} else {
			order.DeliveredAt = nil
		}
		order.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}
		updated = *order
		return nil
	})
	if err != nil {
		return domain.RepairOrder{}, err
	}

	s.log.Info("updated repair order status",
		zap.String("id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) UpdateTitle(ctx context.Context, id string, title string) (domain.RepairOrder, error) {
	if strings.TrimSpace(title) == "" {
		return domain.RepairOrder{}, domain.ErrInvalidTitle
	}
	return s.patch(ctx, id, func(order *domain.RepairOrder) {
		order.Title = strings.TrimSpace(title)
	})
}

func (s *Service) UpdateNotes(ctx context.Context, id string, notes string) (domain.RepairOrder, error) {
	return s.patch(ctx, id, func(order *domain.RepairOrder) {
		order.Notes = strings.TrimSpace(notes)
	})
}

func (s *Service) AssignEmployees(ctx context.Context, id string, employeeIDs []string) (domain.RepairOrder, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.RepairOrder{}, err
	}
	ids, err := parseIDs(employeeIDs)
	if err != nil {
		return domain.RepairOrder{}, err
	}

	var updated domain.RepairOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := requireEmployees(tx, ids); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.repo.ReplaceEmployees(ctx, tx, order.ID, assignments(order.ID, ids, now)); err != nil {
			return err
		}

		order.UpdatedAt = now
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}

		refreshed, err := s.repo.FindByID(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		updated = *refreshed
		return nil
	})
	if err != nil {
		return domain.RepairOrder{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRepairOrderRequest) (domain.ListRepairOrderResponse, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return domain.ListRepairOrderResponse{}, domain.ErrInvalidStatus
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	orders, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return domain.ListRepairOrderResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(orders, req.PageSize, func(o *domain.RepairOrder) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: o.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore {
		orders = orders[:req.PageSize]
	}

	return domain.ListRepairOrderResponse{Orders: orders, PageInfo: pageInfo}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.RepairOrder, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.RepairOrder{}, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return domain.RepairOrder{}, err
	}
	return *order, nil
}

// WorkHistory lists every order ever opened for a vehicle, newest first.
func (s *Service) WorkHistory(ctx context.Context, vehicleID string) ([]domain.RepairOrder, error) {
	id, err := parseID(vehicleID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&vehicledomain.Vehicle{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, vehicledomain.ErrNotFound
	}

	orders, err := s.repo.ListByVehicle(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	history := make([]domain.RepairOrder, 0, len(orders))
	for _, order := range orders {
		history = append(history, *order)
	}
	return history, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoices int64
		if err := tx.Table("invoices").
			Where("repair_order_id = ?", orderID).
			Count(&invoices).Error; err != nil {
			return err
		}
		if invoices > 0 {
			return domain.ErrHasInvoice
		}
		return s.repo.Delete(ctx, tx, orderID)
	})
}

func (s *Service) patch(ctx context.Context, id string, apply func(*domain.RepairOrder)) (domain.RepairOrder, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.RepairOrder{}, err
	}

	var updated domain.RepairOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		apply(order)
		order.UpdatedAt = time.Now().UTC()
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}
		updated = *order
		return nil
	})
	if err != nil {
		return domain.RepairOrder{}, err
	}
	return updated, nil
}

func buildTitle(number int64, lastName, plate string) string {
	return fmt.Sprintf("RO-%d %s - %s", number, lastName, plate)
}

func assignments(orderID snowflake.ID, employeeIDs []snowflake.ID, at time.Time) []domain.OrderEmployee {
	out := make([]domain.OrderEmployee, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		out = append(out, domain.OrderEmployee{
			RepairOrderID: orderID,
			EmployeeID:    employeeID,
			AssignedAt:    at,
		})
	}
	return out
}

func requireEmployees(tx *gorm.DB, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&employeedomain.Employee{}).
		Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return employeedomain.ErrNotFound
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

func parseIDs(values []string) ([]snowflake.ID, error) {
	seen := make(map[snowflake.ID]struct{}, len(values))
	out := make([]snowflake.ID, 0, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
