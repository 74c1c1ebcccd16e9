package service

import (
	"context"
	"testing"
	"time"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	estimatedomain "github.com/autotech/workshop/internal/estimate/domain"
	"github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/internal/invoice/repository"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	repairorderdomain "github.com/autotech/workshop/internal/repairorder/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type invoiceFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clientID  snowflake.ID
	vehicleID snowflake.ID
}

func setupInvoiceService(t *testing.T) invoiceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&vehicledomain.Vehicle{},
		&repairorderdomain.RepairOrder{},
		&estimatedomain.Estimate{},
		&estimatedomain.ServiceItem{},
		&estimatedomain.ProductItem{},
		&domain.Invoice{},
		&domain.ServiceItem{},
		&domain.ProductItem{},
		&paymentdomain.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	clientID := node.Generate()
	vehicleID := node.Generate()
	assert.NoError(t, db.Create(&clientdomain.Client{
		ID:         clientID,
		FirstName:  "Marta",
		LastName:   "Gomez",
		ClientType: clientdomain.ClientTypePersonal,
	}).Error)
	assert.NoError(t, db.Create(&vehicledomain.Vehicle{
		ID:       vehicleID,
		ClientID: clientID,
		Plate:    "XY987ZT",
		Brand:    "Toyota",
		Model:    "Hilux",
	}).Error)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return invoiceFixture{svc: svc, db: db, node: node, clientID: clientID, vehicleID: vehicleID}
}

func (f invoiceFixture) seedEstimate(t *testing.T, status estimatedomain.EstimateStatus) estimatedomain.Estimate {
	t.Helper()

	estimate := estimatedomain.Estimate{
		ID:          f.node.Generate(),
		ClientID:    f.clientID,
		VehicleID:   f.vehicleID,
		Status:      status,
		DiscountPct: decimal.NewFromInt(10),
		TaxPct:      decimal.NewFromInt(21),
		Total:       decimal.RequireFromString("141.57"),
	}
	estimate.ServiceItems = []estimatedomain.ServiceItem{{
		ID:         f.node.Generate(),
		EstimateID: estimate.ID,
		Name:       "Brake service",
		Price:      decimal.RequireFromString("100.00"),
	}}
	estimate.ProductItems = []estimatedomain.ProductItem{{
		ID:         f.node.Generate(),
		EstimateID: estimate.ID,
		Name:       "Brake pad",
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("15.00"),
		TotalPrice: decimal.RequireFromString("30.00"),
	}}
	assert.NoError(t, f.db.Create(&estimate).Error)
	return estimate
}

func TestCreateFromEstimateCopiesItems(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()
	estimate := f.seedEstimate(t, estimatedomain.StatusAccepted)

	created, err := f.svc.CreateFromEstimate(ctx, estimate.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "141.57", created.Total.StringFixed(2))
	assert.Equal(t, estimate.ID, *created.EstimateID)

	// Items are duplicated rows, never shared with the estimate.
	assert.Len(t, created.ServiceItems, 1)
	assert.NotEqual(t, estimate.ServiceItems[0].ID, created.ServiceItems[0].ID)
	assert.Len(t, created.ProductItems, 1)
	assert.NotEqual(t, estimate.ProductItems[0].ID, created.ProductItems[0].ID)

	var estimateItems int64
	assert.NoError(t, f.db.Model(&estimatedomain.ServiceItem{}).
		Where("estimate_id = ?", estimate.ID).Count(&estimateItems).Error)
	assert.Equal(t, int64(1), estimateItems)
}

func TestCreateFromEstimateRequiresAccepted(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()

	pending := f.seedEstimate(t, estimatedomain.StatusPending)
	_, err := f.svc.CreateFromEstimate(ctx, pending.ID.String())
	assert.ErrorIs(t, err, estimatedomain.ErrNotAccepted)

	rejected := f.seedEstimate(t, estimatedomain.StatusRejected)
	_, err = f.svc.CreateFromEstimate(ctx, rejected.ID.String())
	assert.ErrorIs(t, err, estimatedomain.ErrNotAccepted)
}

func TestCreateFromEstimateOnlyOnce(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()
	estimate := f.seedEstimate(t, estimatedomain.StatusAccepted)

	_, err := f.svc.CreateFromEstimate(ctx, estimate.ID.String())
	assert.NoError(t, err)

	_, err = f.svc.CreateFromEstimate(ctx, estimate.ID.String())
	assert.ErrorIs(t, err, domain.ErrEstimateBilled)
}

func TestWalkInClientProductsOnly(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()

	walkInID := f.node.Generate()
	assert.NoError(t, f.db.Create(&clientdomain.Client{
		ID:         walkInID,
		FirstName:  "Counter",
		LastName:   "Sale",
		ClientType: clientdomain.ClientTypeWalkIn,
	}).Error)

	_, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: walkInID.String(),
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Brake service", Price: decimal.RequireFromString("100.00")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrWalkInServices)

	created, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: walkInID.String(),
		ProductItems: []domain.ProductItemInput{
			{Name: "Wiper blade", Quantity: 1, UnitPrice: decimal.RequireFromString("12.50")},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "12.50", created.Total.StringFixed(2))
}

func TestDeleteRefusesLinkedInvoice(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()

	orderID := f.node.Generate()
	assert.NoError(t, f.db.Create(&repairorderdomain.RepairOrder{
		ID:        orderID,
		Number:    1,
		Title:     "RO-1 Gomez - XY987ZT",
		ClientID:  f.clientID,
		VehicleID: f.vehicleID,
		Status:    repairorderdomain.StatusVehicleIntake,
		EntryDate: time.Now().UTC(),
	}).Error)

	created, err := f.svc.CreateFromRepairOrder(ctx, orderID.String(), domain.CreateInvoiceRequest{
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Diagnosis", Price: decimal.RequireFromString("40.00")},
		},
	})
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID.String()), domain.ErrLinkedToOrder)
}

func TestDeleteCascadesItemsAndPayments(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: f.clientID.String(),
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Oil change", Price: decimal.RequireFromString("50.00")},
		},
	})
	assert.NoError(t, err)

	assert.NoError(t, f.db.Create(&paymentdomain.Payment{
		ID:          f.node.Generate(),
		InvoiceID:   created.ID,
		PaymentDate: time.Now().UTC(),
		Amount:      decimal.RequireFromString("20.00"),
		PaymentType: paymentdomain.PaymentTypeCash,
	}).Error)

	assert.NoError(t, f.svc.Delete(ctx, created.ID.String()))

	var count int64
	assert.NoError(t, f.db.Model(&domain.ServiceItem{}).
		Where("invoice_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoError(t, f.db.Model(&paymentdomain.Payment{}).
		Where("invoice_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = f.svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRederivesStatusFromPayments(t *testing.T) {
	f := setupInvoiceService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		ClientID: f.clientID.String(),
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Oil change", Price: decimal.RequireFromString("50.00")},
		},
	})
	assert.NoError(t, err)

	// Pay the invoice in full, then grow its total: the status must fall
	// back from PAID to PARTIALLY_PAID.
	assert.NoError(t, f.db.Create(&paymentdomain.Payment{
		ID:          f.node.Generate(),
		InvoiceID:   created.ID,
		PaymentDate: time.Now().UTC(),
		Amount:      decimal.RequireFromString("50.00"),
		PaymentType: paymentdomain.PaymentTypeCash,
	}).Error)

	updated, err := f.svc.Update(ctx, created.ID.String(), domain.UpdateInvoiceRequest{
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Oil change", Price: decimal.RequireFromString("50.00")},
			{Name: "Filter swap", Price: decimal.RequireFromString("25.00")},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "75.00", updated.Total.StringFixed(2))
	assert.Equal(t, domain.StatusPartiallyPaid, updated.Status)
}
