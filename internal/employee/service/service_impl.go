package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autotech/workshop/internal/employee/domain"
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
		log:   p.Log.Named("employee.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return domain.Employee{}, domain.ErrInvalidName
	}
	status := req.Status
	if status == "" {
		status = domain.EmployeeStatusActive
	}
	if status != domain.EmployeeStatusActive && status != domain.EmployeeStatusInactive {
		return domain.Employee{}, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		ID:        s.genID.Generate(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		DNI:       strings.TrimSpace(req.DNI),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		Province:  strings.TrimSpace(req.Province),
		Country:   strings.TrimSpace(req.Country),
		EntryDate: req.EntryDate,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return domain.Employee{}, err
	}

	s.log.Info("created employee", zap.String("id", employee.ID.String()))
	return employee, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateEmployeeRequest) (domain.Employee, error) {
	employeeID, err := parseID(id)
	if err != nil {
		return domain.Employee{}, err
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return domain.Employee{}, domain.ErrInvalidName
	}

	var updated domain.Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Employee
		if err := tx.First(&existing, "id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		existing.FirstName = strings.TrimSpace(req.FirstName)
		existing.LastName = strings.TrimSpace(req.LastName)
		existing.DNI = strings.TrimSpace(req.DNI)
		existing.Email = strings.TrimSpace(req.Email)
		existing.Phone = strings.TrimSpace(req.Phone)
		existing.Address = strings.TrimSpace(req.Address)
		existing.City = strings.TrimSpace(req.City)
		existing.Province = strings.TrimSpace(req.Province)
		existing.Country = strings.TrimSpace(req.Country)
		existing.EntryDate = req.EntryDate
		if req.Status != "" {
			if req.Status != domain.EmployeeStatusActive && req.Status != domain.EmployeeStatusInactive {
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
		return domain.Employee{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := s.db.WithContext(ctx).
		Order("last_name asc, first_name asc").
		Find(&employees).Error
	return employees, err
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	employeeID, err := parseID(id)
	if err != nil {
		return domain.Employee{}, err
	}

	var employee domain.Employee
	if err := s.db.WithContext(ctx).First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Employee{}, domain.ErrNotFound
		}
		return domain.Employee{}, err
	}
	return employee, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	employeeID, err := parseID(id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&domain.Employee{}, "id = ?", employeeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
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
