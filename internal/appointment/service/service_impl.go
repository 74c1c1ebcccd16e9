package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autotech/workshop/internal/appointment/domain"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
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
		log:   p.Log.Named("appointment.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (domain.Appointment, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Appointment{}, domain.ErrClientRequired
	}
	if req.ScheduledAt.IsZero() {
		return domain.Appointment{}, domain.ErrInvalidTime
	}
	endsAt, err := normalizeEnd(req.ScheduledAt, req.EndsAt)
	if err != nil {
		return domain.Appointment{}, err
	}

	var vehicleID *snowflake.ID
	if v := strings.TrimSpace(req.VehicleID); v != "" {
		parsed, err := snowflake.ParseString(v)
		if err != nil || parsed == 0 {
			return domain.Appointment{}, domain.ErrInvalidID
		}
		vehicleID = &parsed
	}

	var created domain.Appointment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&clientdomain.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return clientdomain.ErrNotFound
		}

		if vehicleID != nil {
			if err := tx.Model(&vehicledomain.Vehicle{}).Where("id = ?", *vehicleID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return vehicledomain.ErrNotFound
			}
		}

		now := time.Now().UTC()
		created = domain.Appointment{
			ID:          s.genID.Generate(),
			ClientID:    clientID,
			VehicleID:   vehicleID,
			ScheduledAt: req.ScheduledAt.UTC(),
			EndsAt:      endsAt,
			Reason:      strings.TrimSpace(req.Reason),
			Notes:       strings.TrimSpace(req.Notes),
			Status:      domain.AppointmentStatusScheduled,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("created appointment",
		zap.String("id", created.ID.String()),
		zap.Time("scheduled_at", created.ScheduledAt),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateAppointmentRequest) (domain.Appointment, error) {
	appointmentID, err := parseID(id)
	if err != nil {
		return domain.Appointment{}, err
	}

	var updated domain.Appointment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Appointment
		if err := tx.First(&existing, "id = ?", appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if !req.ScheduledAt.IsZero() {
			existing.ScheduledAt = req.ScheduledAt.UTC()
		}
		endsAt, err := normalizeEnd(existing.ScheduledAt, req.EndsAt)
		if err != nil {
			return err
		}
		existing.EndsAt = endsAt
		existing.Reason = strings.TrimSpace(req.Reason)
		existing.Notes = strings.TrimSpace(req.Notes)
		if req.Status != "" {
			if !domain.ValidStatus(req.Status) {
				return domain.ErrInvalidStatus
			}
			existing.Status = req.Status
		}
		existing.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListAppointmentFilter) ([]domain.Appointment, error) {
	query := s.db.WithContext(ctx).Model(&domain.Appointment{})

	if c := strings.TrimSpace(filter.ClientID); c != "" {
		clientID, err := snowflake.ParseString(c)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query = query.Where("client_id = ?", clientID)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("scheduled_at < ?", filter.To.UTC())
	}

	var appointments []domain.Appointment
	err := query.Order("scheduled_at asc").Find(&appointments).Error
	return appointments, err
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Appointment, error) {
	appointmentID, err := parseID(id)
	if err != nil {
		return domain.Appointment{}, err
	}

	var appointment domain.Appointment
	if err := s.db.WithContext(ctx).First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Appointment{}, domain.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	appointmentID, err := parseID(id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&domain.Appointment{}, "id = ?", appointmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// normalizeEnd converts the optional end time to UTC and rejects ends
// that do not fall after the start.
func normalizeEnd(start time.Time, end *time.Time) (*time.Time, error) {
	if end == nil {
		return nil, nil
	}
	normalized := end.UTC()
	if !normalized.After(start.UTC()) {
		return nil, domain.ErrInvalidTime
	}
	return &normalized, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
