// Package server exposes every workshop operation over HTTP with gin.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/autotech/workshop/internal/appointment"
	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	"github.com/autotech/workshop/internal/bankaccount"
	bankaccountdomain "github.com/autotech/workshop/internal/bankaccount/domain"
	"github.com/autotech/workshop/internal/client"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/config"
	"github.com/autotech/workshop/internal/dashboard"
	dashboarddomain "github.com/autotech/workshop/internal/dashboard/domain"
	"github.com/autotech/workshop/internal/employee"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	"github.com/autotech/workshop/internal/estimate"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	"github.com/autotech/workshop/internal/inspection"
	inspectiondomain "github.com/autotech/workshop/internal/inspection/domain"
	"github.com/autotech/workshop/internal/invoice"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/internal/payment"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	"github.com/autotech/workshop/internal/repairorder"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/autotech/workshop/internal/vehicle"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	client.Module,
	vehicle.Module,
	employee.Module,
	bankaccount.Module,
	appointment.Module,
	repairorder.Module,
	inspection.Module,
	estimate.Module,
	invoice.Module,
	payment.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	clientSvc      clientdomain.Service
	vehicleSvc     vehicledomain.Service
	employeeSvc    employeedomain.Service
	bankAccountSvc bankaccountdomain.Service
	appointmentSvc appointmentdomain.Service
	repairOrderSvc repairorderdomain.Service
	inspectionSvc  inspectiondomain.Service
	estimateSvc    estimatedomain.Service
	invoiceSvc     invoicedomain.Service
	paymentSvc     paymentdomain.Service
	dashboardSvc   dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	ClientSvc      clientdomain.Service
	VehicleSvc     vehicledomain.Service
	EmployeeSvc    employeedomain.Service
	BankAccountSvc bankaccountdomain.Service
	AppointmentSvc appointmentdomain.Service
	RepairOrderSvc repairorderdomain.Service
	InspectionSvc  inspectiondomain.Service
	EstimateSvc    estimatedomain.Service
	InvoiceSvc     invoicedomain.Service
	PaymentSvc     paymentdomain.Service
	DashboardSvc   dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		clientSvc:      p.ClientSvc,
		vehicleSvc:     p.VehicleSvc,
		employeeSvc:    p.EmployeeSvc,
		bankAccountSvc: p.BankAccountSvc,
		appointmentSvc: p.AppointmentSvc,
		repairOrderSvc: p.RepairOrderSvc,
		inspectionSvc:  p.InspectionSvc,
		estimateSvc:    p.EstimateSvc,
		invoiceSvc:     p.InvoiceSvc,
		paymentSvc:     p.PaymentSvc,
		dashboardSvc:   p.DashboardSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")

	clients := api.Group("/clients")
	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:id", s.GetClient)
	clients.PUT("/:id", s.UpdateClient)
	clients.DELETE("/:id", s.DeleteClient)
	clients.GET("/:id/vehicles", s.ListClientVehicles)

	vehicles := api.Group("/vehicles")
	vehicles.POST("", s.CreateVehicle)
	vehicles.GET("", s.ListVehicles)
	vehicles.GET("/:id", s.GetVehicle)
	vehicles.PUT("/:id", s.UpdateVehicle)
	vehicles.DELETE("/:id", s.DeleteVehicle)
	vehicles.GET("/:id/history", s.GetVehicleHistory)

	employees := api.Group("/employees")
	employees.POST("", s.CreateEmployee)
	employees.GET("", s.ListEmployees)
	employees.GET("/:id", s.GetEmployee)
	employees.PUT("/:id", s.UpdateEmployee)
	employees.DELETE("/:id", s.DeleteEmployee)

	bankAccounts := api.Group("/bank-accounts")
	bankAccounts.POST("", s.CreateBankAccount)
	bankAccounts.GET("", s.ListBankAccounts)
	bankAccounts.GET("/:id", s.GetBankAccount)
	bankAccounts.PUT("/:id", s.UpdateBankAccount)
	bankAccounts.DELETE("/:id", s.DeleteBankAccount)

	appointments := api.Group("/appointments")
	appointments.POST("", s.CreateAppointment)
	appointments.GET("", s.ListAppointments)
	appointments.GET("/:id", s.GetAppointment)
	appointments.PUT("/:id", s.UpdateAppointment)
	appointments.DELETE("/:id", s.DeleteAppointment)

	repairOrders := api.Group("/repair-orders")
	repairOrders.POST("", s.CreateRepairOrder)
	repairOrders.GET("", s.ListRepairOrders)
	repairOrders.GET("/:id", s.GetRepairOrder)
	repairOrders.PUT("/:id", s.UpdateRepairOrder)
	repairOrders.PATCH("/:id/status", s.UpdateRepairOrderStatus)
	repairOrders.PATCH("/:id/title", s.UpdateRepairOrderTitle)
	repairOrders.PATCH("/:id/notes", s.UpdateRepairOrderNotes)
	repairOrders.PUT("/:id/employees", s.AssignRepairOrderEmployees)
	repairOrders.DELETE("/:id", s.DeleteRepairOrder)
	repairOrders.GET("/:id/inspections", s.ListRepairOrderInspections)
	repairOrders.POST("/:id/invoice", s.CreateInvoiceFromRepairOrder)

	inspections := api.Group("/inspections")
	inspections.POST("", s.CreateInspection)
	inspections.GET("/:id", s.GetInspection)
	inspections.PUT("/:id", s.UpdateInspection)
	inspections.DELETE("/:id", s.DeleteInspection)

	estimates := api.Group("/estimates")
	estimates.POST("", s.CreateEstimate)
	estimates.GET("", s.ListEstimates)
	estimates.GET("/:id", s.GetEstimate)
	estimates.PUT("/:id", s.UpdateEstimate)
	estimates.DELETE("/:id", s.DeleteEstimate)
	estimates.POST("/:id/approve", s.ApproveEstimate)
	estimates.POST("/:id/reject", s.RejectEstimate)
	estimates.GET("/:id/invoice-data", s.GetEstimateInvoiceData)

	invoices := api.Group("/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.POST("/from-estimate/:id", s.CreateInvoiceFromEstimate)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.PUT("/:id", s.UpdateInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.GET("/:id/payments", s.ListInvoicePayments)
	invoices.GET("/:id/payments/summary", s.GetInvoicePaymentSummary)
	invoices.GET("/:id/payments/audit", s.GetInvoicePaymentAudit)

	payments := api.Group("/payments")
	payments.POST("", s.CreatePayment)
	payments.PUT("/:id", s.UpdatePayment)
	payments.DELETE("/:id", s.DeletePayment)

	dashboardGroup := api.Group("/dashboard")
	dashboardGroup.GET("/summary", s.GetDashboardSummary)
	dashboardGroup.GET("/financial", s.GetDashboardFinancial)
	dashboardGroup.GET("/financial/export", s.ExportDashboardFinancial)
	dashboardGroup.GET("/productivity", s.GetDashboardProductivity)
}
