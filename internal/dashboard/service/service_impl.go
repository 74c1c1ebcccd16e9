package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	"github.com/autotech/workshop/internal/config"
	"github.com/autotech/workshop/internal/dashboard/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMonths = 6
const maxMonths = 36
const defaultStaleDays = 5

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	staleDays int
}

func New(p Params) domain.Service {
	staleDays := p.Config.DashboardStaleDays
	if staleDays <= 0 {
		staleDays = defaultStaleDays
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dashboard.service"),
		staleDays: staleDays,
	}
}

func (s *Service) Summary(ctx context.Context) (domain.SummaryReport, error) {
	db := s.db.WithContext(ctx)
	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	report := domain.SummaryReport{
		OrdersByStatus:     make(map[repairorderdomain.OrderStatus]int64),
		StaleThresholdDays: s.staleDays,
	}

	if err := db.Model(&repairorderdomain.RepairOrder{}).
		Where("status <> ?", repairorderdomain.StatusDelivered).
		Count(&report.OpenOrders).Error; err != nil {
		return domain.SummaryReport{}, err
	}

	if err := db.Model(&appointmentdomain.Appointment{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", todayStart, tomorrowStart).
		Where("status = ?", appointmentdomain.AppointmentStatusScheduled).
		Count(&report.TodayAppointments).Error; err != nil {
		return domain.SummaryReport{}, err
	}

	revenue, paidCount, err := s.paidRevenue(db, monthStart, now.AddDate(0, 0, 1))
	if err != nil {
		return domain.SummaryReport{}, err
	}
	report.MonthlyRevenue = revenue
	if paidCount > 0 {
		report.AverageTicket = revenue.Div(decimal.NewFromInt(paidCount)).Round(2)
	} else {
		report.AverageTicket = decimal.Zero
	}

	var statusRows []struct {
		Status repairorderdomain.OrderStatus
		Total  int64
	}
	if err := db.Model(&repairorderdomain.RepairOrder{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return domain.SummaryReport{}, err
	}
	for _, row := range statusRows {
		report.OrdersByStatus[row.Status] = row.Total
	}

	if err := db.Model(&appointmentdomain.Appointment{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", todayStart, tomorrowStart).
		Where("status = ?", appointmentdomain.AppointmentStatusScheduled).
		Order("scheduled_at asc").
		Limit(5).
		Find(&report.NextAppointments).Error; err != nil {
		return domain.SummaryReport{}, err
	}

	staleBefore := now.AddDate(0, 0, -s.staleDays)
	var staleOrders []repairorderdomain.RepairOrder
	if err := db.Model(&repairorderdomain.RepairOrder{}).
		Where("status <> ?", repairorderdomain.StatusDelivered).
		Where("updated_at < ?", staleBefore).
		Order("updated_at asc").
		Limit(10).
		Find(&staleOrders).Error; err != nil {
		return domain.SummaryReport{}, err
	}
	report.StaleOrders = make([]domain.StaleOrderAlert, 0, len(staleOrders))
	for _, order := range staleOrders {
		report.StaleOrders = append(report.StaleOrders, domain.StaleOrderAlert{
			RepairOrderID: order.ID.String(),
			Title:         order.Title,
			Status:        string(order.Status),
			UpdatedAt:     order.UpdatedAt,
			IdleDays:      int(now.Sub(order.UpdatedAt).Hours() / 24),
		})
	}

	if err := db.Model(&estimatedomain.Estimate{}).
		Where("status = ?", estimatedomain.StatusPending).
		Count(&report.PendingEstimates).Error; err != nil {
		return domain.SummaryReport{}, err
	}

	return report, nil
}

func (s *Service) Financial(ctx context.Context, months int) (domain.FinancialReport, error) {
	if months == 0 {
		months = defaultMonths
	}
	if months < 1 || months > maxMonths {
		return domain.FinancialReport{}, domain.ErrInvalidMonths
	}

	db := s.db.WithContext(ctx)
	now := time.Now().UTC()

	report := domain.FinancialReport{Months: months}

	// Month windows are computed here instead of with SQL date functions
	// so the same queries run on postgres, mysql and sqlite.
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		revenue, _, err := s.paidRevenue(db, monthStart, monthEnd)
		if err != nil {
			return domain.FinancialReport{}, err
		}
		report.RevenueSeries = append(report.RevenueSeries, domain.MonthRevenue{
			Month:   monthStart.Format("2006-01"),
			Revenue: revenue,
		})
	}

	if err := db.Model(&estimatedomain.Estimate{}).Count(&report.EstimatesTotal).Error; err != nil {
		return domain.FinancialReport{}, err
	}
	if err := db.Model(&estimatedomain.Estimate{}).
		Where("status = ?", estimatedomain.StatusAccepted).
		Count(&report.EstimatesAccepted).Error; err != nil {
		return domain.FinancialReport{}, err
	}
	if report.EstimatesTotal > 0 {
		report.ConversionRate = float64(report.EstimatesAccepted) / float64(report.EstimatesTotal)
	}

	unpaid, pendingTotal, err := s.unpaidInvoices(db)
	if err != nil {
		return domain.FinancialReport{}, err
	}
	report.PendingBillingTotal = pendingTotal
	if len(unpaid) > 5 {
		unpaid = unpaid[:5]
	}
	report.TopUnpaidInvoices = unpaid

	return report, nil
}

func (s *Service) Productivity(ctx context.Context) (domain.ProductivityReport, error) {
	db := s.db.WithContext(ctx)

	var delivered []repairorderdomain.RepairOrder
	if err := db.Model(&repairorderdomain.RepairOrder{}).
		Where("status = ? AND delivered_at IS NOT NULL", repairorderdomain.StatusDelivered).
		Find(&delivered).Error; err != nil {
		return domain.ProductivityReport{}, err
	}

	report := domain.ProductivityReport{DeliveredOrders: int64(len(delivered))}
	if len(delivered) > 0 {
		var totalDays float64
		for _, order := range delivered {
			totalDays += order.DeliveredAt.Sub(order.EntryDate).Hours() / 24
		}
		report.AverageRepairDays = totalDays / float64(len(delivered))
	}

	var mechanicRows []struct {
		EmployeeID string
		FirstName  string
		LastName   string
		Delivered  int64
	}
	err := db.Table("repair_order_employees").
		Select("employees.id as employee_id, employees.first_name, employees.last_name, COUNT(*) as delivered").
		Joins("JOIN repair_orders ON repair_orders.id = repair_order_employees.repair_order_id").
		Joins("JOIN employees ON employees.id = repair_order_employees.employee_id").
		Where("repair_orders.status = ?", repairorderdomain.StatusDelivered).
		Group("employees.id, employees.first_name, employees.last_name").
		Order("delivered desc").
		Scan(&mechanicRows).Error
	if err != nil {
		return domain.ProductivityReport{}, err
	}
	for _, row := range mechanicRows {
		report.ByMechanic = append(report.ByMechanic, domain.MechanicThroughput{
			EmployeeID:   row.EmployeeID,
			EmployeeName: row.FirstName + " " + row.LastName,
			Delivered:    row.Delivered,
		})
	}

	var serviceRows []struct {
		Name    string
		Count   int64
		Revenue decimal.Decimal
	}
	err = db.Model(&invoicedomain.ServiceItem{}).
		Select("name, COUNT(*) as count, COALESCE(SUM(price), 0) as revenue").
		Group("name").
		Order("count desc").
		Limit(10).
		Scan(&serviceRows).Error
	if err != nil {
		return domain.ProductivityReport{}, err
	}
	for _, row := range serviceRows {
		report.TopServices = append(report.TopServices, domain.ServiceRank{
			Name:    row.Name,
			Count:   row.Count,
			Revenue: row.Revenue,
		})
	}

	return report, nil
}

// ExportFinancial renders the financial report as an xlsx workbook.
func (s *Service) ExportFinancial(ctx context.Context, months int) ([]byte, error) {
	report, err := s.Financial(ctx, months)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Financial"
	file.SetSheetName(file.GetSheetName(0), sheet)

	file.SetCellValue(sheet, "A1", "Month")
	file.SetCellValue(sheet, "B1", "Revenue")
	row := 2
	for _, point := range report.RevenueSeries {
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Month)
		value, _ := point.Revenue.Float64()
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	row++
	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Estimates")
	file.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.EstimatesTotal)
	row++
	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Accepted")
	file.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.EstimatesAccepted)
	row++
	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Conversion rate")
	file.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.ConversionRate)
	row++
	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Pending billing")
	pending, _ := report.PendingBillingTotal.Float64()
	file.SetCellValue(sheet, fmt.Sprintf("B%d", row), pending)

	row += 2
	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Invoice")
	file.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Status")
	file.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total")
	file.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Paid")
	file.SetCellValue(sheet, fmt.Sprintf("E%d", row), "Remaining")
	for _, unpaid := range report.TopUnpaidInvoices {
		row++
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), unpaid.InvoiceID)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), unpaid.Status)
		total, _ := unpaid.Total.Float64()
		paid, _ := unpaid.TotalPaid.Float64()
		remaining, _ := unpaid.Remaining.Float64()
		file.SetCellValue(sheet, fmt.Sprintf("C%d", row), total)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", row), paid)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", row), remaining)
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	s.log.Info("exported financial report", zap.Int("months", report.Months))
	return buffer.Bytes(), nil
}

func (s *Service) paidRevenue(db *gorm.DB, from, to time.Time) (decimal.Decimal, int64, error) {
	var revenue decimal.Decimal
	err := db.Model(&invoicedomain.Invoice{}).
		Where("status = ?", invoicedomain.StatusPaid).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	var count int64
	err = db.Model(&invoicedomain.Invoice{}).
		Where("status = ?", invoicedomain.StatusPaid).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return revenue, count, nil
}

func (s *Service) unpaidInvoices(db *gorm.DB) ([]domain.UnpaidInvoice, decimal.Decimal, error) {
	var invoices []invoicedomain.Invoice
	err := db.Model(&invoicedomain.Invoice{}).
		Where("status <> ?", invoicedomain.StatusPaid).
		Find(&invoices).Error
	if err != nil {
		return nil, decimal.Zero, err
	}

	var paidRows []struct {
		InvoiceID string
		Paid      decimal.Decimal
	}
	err = db.Model(&paymentdomain.Payment{}).
		Select("invoice_id, COALESCE(SUM(amount), 0) as paid").
		Group("invoice_id").
		Scan(&paidRows).Error
	if err != nil {
		return nil, decimal.Zero, err
	}
	paidByInvoice := make(map[string]decimal.Decimal, len(paidRows))
	for _, row := range paidRows {
		paidByInvoice[row.InvoiceID] = row.Paid
	}

	pendingTotal := decimal.Zero
	unpaid := make([]domain.UnpaidInvoice, 0, len(invoices))
	for _, invoice := range invoices {
		paid := paidByInvoice[invoice.ID.String()]
		remaining := invoice.Total.Sub(paid)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		pendingTotal = pendingTotal.Add(remaining)
		unpaid = append(unpaid, domain.UnpaidInvoice{
			InvoiceID: invoice.ID.String(),
			ClientID:  invoice.ClientID.String(),
			Status:    string(invoice.Status),
			Total:     invoice.Total,
			TotalPaid: paid,
			Remaining: remaining,
		})
	}

	sort.Slice(unpaid, func(i, j int) bool {
		return unpaid[i].Remaining.GreaterThan(unpaid[j].Remaining)
	})
	return unpaid, pendingTotal, nil
}
