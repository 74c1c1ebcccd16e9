package migration

import (
	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/config"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	inspectiondomain "github.com/autotech/workshop/internal/inspection/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "sqlite" {
			return conn.AutoMigrate(
				&clientdomain.Client{},
				&vehicledomain.Vehicle{},
				&employeedomain.Employee{},
				&bankaccountdomain.BankAccount{},
				&appointmentdomain.Appointment{},
				&repairorderdomain.RepairOrder{},
				&repairorderdomain.OrderEmployee{},
				&inspectiondomain.Inspection{},
				&inspectiondomain.InspectionItem{},
				&estimatedomain.Estimate{},
				&estimatedomain.ServiceItem{},
				&estimatedomain.ProductItem{},
				&invoicedomain.Invoice{},
				&invoicedomain.ServiceItem{},
				&invoicedomain.ProductItem{},
				&paymentdomain.Payment{},
				&paymentdomain.PaymentAuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB, cfg.DBType)
	}),
)
