// Package domain defines the read-only reporting views assembled from
// the operational tables.
package domain

import (
	"context"
	"errors"
	"time"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/shopspring/decimal"
)

// SummaryReport backs the landing dashboard.
type SummaryReport struct {
	OpenOrders         int64                                  `json:"open_orders"`
	TodayAppointments  int64                                  `json:"today_appointments"`
	MonthlyRevenue     decimal.Decimal                        `json:"monthly_revenue"`
	AverageTicket      decimal.Decimal                        `json:"average_ticket"`
	OrdersByStatus     map[repairorderdomain.OrderStatus]int64 `json:"orders_by_status"`
	NextAppointments   []appointmentdomain.Appointment        `json:"next_appointments"`
	StaleOrders        []StaleOrderAlert                      `json:"stale_orders"`
	PendingEstimates   int64                                  `json:"pending_estimates"`
	StaleThresholdDays int                                    `json:"stale_threshold_days"`
}

// StaleOrderAlert flags an open order that has not moved for longer
// than the configured threshold.
type StaleOrderAlert struct {
	RepairOrderID string    `json:"repair_order_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
	IdleDays      int       `json:"idle_days"`
}

// MonthRevenue is one point of the revenue series.
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// UnpaidInvoice is one row of the outstanding-balance ranking.
type UnpaidInvoice struct {
	InvoiceID string          `json:"invoice_id"`
	ClientID  string          `json:"client_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// FinancialReport covers revenue, conversion and outstanding billing.
type FinancialReport struct {
	Months              int             `json:"months"`
	RevenueSeries       []MonthRevenue  `json:"revenue_series"`
	EstimatesTotal      int64           `json:"estimates_total"`
	EstimatesAccepted   int64           `json:"estimates_accepted"`
	ConversionRate      float64         `json:"conversion_rate"`
	PendingBillingTotal decimal.Decimal `json:"pending_billing_total"`
	TopUnpaidInvoices   []UnpaidInvoice `json:"top_unpaid_invoices"`
}

// MechanicThroughput counts delivered orders per assigned employee.
type MechanicThroughput struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Delivered    int64  `json:"delivered"`
}

// ServiceRank is one row of the most-billed-services ranking.
type ServiceRank struct {
	Name    string          `json:"name"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductivityReport covers workshop throughput.
type ProductivityReport struct {
	AverageRepairDays float64              `json:"average_repair_days"`
	DeliveredOrders   int64                `json:"delivered_orders"`
	ByMechanic        []MechanicThroughput `json:"by_mechanic"`
	TopServices       []ServiceRank        `json:"top_services"`
}

type Service interface {
	Summary(ctx context.Context) (SummaryReport, error)
	Financial(ctx context.Context, months int) (FinancialReport, error)
	Productivity(ctx context.Context) (ProductivityReport, error)
	ExportFinancial(ctx context.Context, months int) ([]byte, error)
}

var ErrInvalidMonths = errors.New("invalid_month_range")
