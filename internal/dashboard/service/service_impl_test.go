package service

import (
	"context"
	"testing"
	"time"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	"github.com/autotech/workshop/internal/config"
	"github.com/autotech/workshop/internal/dashboard/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDashboard(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&appointmentdomain.Appointment{},
		&repairorderdomain.RepairOrder{},
		&repairorderdomain.OrderEmployee{},
		&employeedomain.Employee{},
		&estimatedomain.Estimate{},
		&invoicedomain.Invoice{},
		&invoicedomain.ServiceItem{},
		&paymentdomain.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		Config: config.Config{DashboardStaleDays: 5},
	})
	return svc, db, node
}

func seedOrder(t *testing.T, db *gorm.DB, node *snowflake.Node, status repairorderdomain.OrderStatus, entry time.Time) repairorderdomain.RepairOrder {
	t.Helper()
	order := repairorderdomain.RepairOrder{
		ID:        node.Generate(),
		Number:    int64(node.Generate()) % 100000,
		Title:     "order",
		ClientID:  node.Generate(),
		VehicleID: node.Generate(),
		Status:    status,
		EntryDate: entry,
		CreatedAt: entry,
		UpdatedAt: time.Now().UTC(),
	}
	if status == repairorderdomain.StatusDelivered {
		deliveredAt := entry.AddDate(0, 0, 4)
		order.DeliveredAt = &deliveredAt
	}
	assert.NoError(t, db.Create(&order).Error)
	return order
}

func TestSummaryCountsOpenWork(t *testing.T) {
	svc, db, node := setupDashboard(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedOrder(t, db, node, repairorderdomain.StatusVehicleIntake, now.AddDate(0, 0, -1))
	seedOrder(t, db, node, repairorderdomain.StatusInRepair, now.AddDate(0, 0, -2))
	seedOrder(t, db, node, repairorderdomain.StatusDelivered, now.AddDate(0, 0, -10))

	noonToday := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
	assert.NoError(t, db.Create(&appointmentdomain.Appointment{
		ID:          node.Generate(),
		ClientID:    node.Generate(),
		ScheduledAt: noonToday,
		Reason:      "oil change",
		Status:      appointmentdomain.AppointmentStatusScheduled,
	}).Error)

	assert.NoError(t, db.Create(&estimatedomain.Estimate{
		ID:       node.Generate(),
		ClientID: node.Generate(),
		Status:   estimatedomain.StatusPending,
	}).Error)

	assert.NoError(t, db.Create(&invoicedomain.Invoice{
		ID:       node.Generate(),
		ClientID: node.Generate(),
		Status:   invoicedomain.StatusPaid,
		Total:    decimal.RequireFromString("200.00"),
		IssuedAt: now,
	}).Error)

	report, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), report.OpenOrders)
	assert.Equal(t, int64(1), report.TodayAppointments)
	assert.Equal(t, int64(1), report.PendingEstimates)
	assert.Equal(t, "200.00", report.MonthlyRevenue.StringFixed(2))
	assert.Equal(t, "200.00", report.AverageTicket.StringFixed(2))
	assert.Equal(t, int64(1), report.OrdersByStatus[repairorderdomain.StatusInRepair])
	assert.Len(t, report.NextAppointments, 1)
}

func TestFinancialValidatesMonths(t *testing.T) {
	svc, _, _ := setupDashboard(t)
	ctx := context.Background()

	_, err := svc.Financial(ctx, maxMonths+1)
	assert.ErrorIs(t, err, domain.ErrInvalidMonths)
	_, err = svc.Financial(ctx, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidMonths)

	report, err := svc.Financial(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, defaultMonths, report.Months)
	assert.Len(t, report.RevenueSeries, defaultMonths)
}

func TestFinancialTracksUnpaidBalances(t *testing.T) {
	svc, db, node := setupDashboard(t)
	ctx := context.Background()
	now := time.Now().UTC()

	invoiceID := node.Generate()
	assert.NoError(t, db.Create(&invoicedomain.Invoice{
		ID:       invoiceID,
		ClientID: node.Generate(),
		Status:   invoicedomain.StatusPartiallyPaid,
		Total:    decimal.RequireFromString("500.00"),
		IssuedAt: now,
	}).Error)
	assert.NoError(t, db.Create(&paymentdomain.Payment{
		ID:          node.Generate(),
		InvoiceID:   invoiceID,
		PaymentDate: now,
		Amount:      decimal.RequireFromString("200.00"),
		PaymentType: paymentdomain.PaymentTypeCash,
	}).Error)

	assert.NoError(t, db.Create(&estimatedomain.Estimate{
		ID:       node.Generate(),
		ClientID: node.Generate(),
		Status:   estimatedomain.StatusAccepted,
	}).Error)
	assert.NoError(t, db.Create(&estimatedomain.Estimate{
		ID:       node.Generate(),
		ClientID: node.Generate(),
		Status:   estimatedomain.StatusRejected,
	}).Error)

	report, err := svc.Financial(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, "300.00", report.PendingBillingTotal.StringFixed(2))
	assert.Len(t, report.TopUnpaidInvoices, 1)
	assert.Equal(t, "300.00", report.TopUnpaidInvoices[0].Remaining.StringFixed(2))
	assert.Equal(t, int64(2), report.EstimatesTotal)
	assert.Equal(t, int64(1), report.EstimatesAccepted)
	assert.InDelta(t, 0.5, report.ConversionRate, 0.0001)
}

func TestProductivityAveragesDeliveredOrders(t *testing.T) {
	svc, db, node := setupDashboard(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedOrder(t, db, node, repairorderdomain.StatusDelivered, now.AddDate(0, 0, -10))
	seedOrder(t, db, node, repairorderdomain.StatusInRepair, now.AddDate(0, 0, -1))

	report, err := svc.Productivity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), report.DeliveredOrders)
	assert.InDelta(t, 4.0, report.AverageRepairDays, 0.01)
}

func TestExportFinancialProducesWorkbook(t *testing.T) {
	svc, _, _ := setupDashboard(t)

	data, err := svc.ExportFinancial(context.Background(), 2)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives.
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}

func TestStaleThresholdFallbackMatchesConfigDefault(t *testing.T) {
	_, db, _ := setupDashboard(t)

	svc := New(Params{DB: db, Log: zap.NewNop(), Config: config.Config{}})
	report, err := svc.Summary(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, report.StaleThresholdDays)
}
