package service

import (
	"context"
	"testing"

	clientdomain "github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/estimate/domain"
	"github.com/autotech/workshop/internal/estimate/repository"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupEstimateService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, snowflake.ID, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&vehicledomain.Vehicle{},
		&domain.Estimate{},
		&domain.ServiceItem{},
		&domain.ProductItem{},
		&invoicedomain.Invoice{},
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
		FirstName:  "Ana",
		LastName:   "Suarez",
		ClientType: clientdomain.ClientTypePersonal,
	}).Error)
	assert.NoError(t, db.Create(&vehicledomain.Vehicle{
		ID:       vehicleID,
		ClientID: clientID,
		Plate:    "AB123CD",
		Brand:    "Ford",
		Model:    "Focus",
	}).Error)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db, node, clientID, vehicleID
}

func vectorRequest(clientID, vehicleID snowflake.ID) domain.CreateEstimateRequest {
	return domain.CreateEstimateRequest{
		ClientID:    clientID.String(),
		VehicleID:   vehicleID.String(),
		DiscountPct: decimal.NewFromInt(10),
		TaxPct:      decimal.NewFromInt(21),
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Brake service", Price: decimal.RequireFromString("100.00")},
		},
		ProductItems: []domain.ProductItemInput{
			{Name: "Brake pad", Quantity: 2, UnitPrice: decimal.RequireFromString("15.00")},
		},
	}
}

func TestCreateEstimateComputesTotal(t *testing.T) {
	svc, _, _, clientID, vehicleID := setupEstimateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "141.57", created.Total.StringFixed(2))
	assert.Len(t, created.ServiceItems, 1)
	assert.Len(t, created.ProductItems, 1)
	assert.Equal(t, "30.00", created.ProductItems[0].TotalPrice.StringFixed(2))
}

func TestApproveIsFinal(t *testing.T) {
	svc, _, _, clientID, vehicleID := setupEstimateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, approved.Status)

	_, err = svc.Approve(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotPending)

	_, err = svc.Reject(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestUpdateRequiresPending(t *testing.T) {
	svc, _, _, clientID, vehicleID := setupEstimateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)

	_, err = svc.Reject(ctx, created.ID.String())
	assert.NoError(t, err)

	_, err = svc.Update(ctx, created.ID.String(), domain.UpdateEstimateRequest{
		DiscountPct: decimal.Zero,
		TaxPct:      decimal.Zero,
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Oil change", Price: decimal.RequireFromString("50.00")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestUpdateRecomputesTotal(t *testing.T) {
	svc, _, _, clientID, vehicleID := setupEstimateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateEstimateRequest{
		DiscountPct: decimal.Zero,
		TaxPct:      decimal.Zero,
		ServiceItems: []domain.ServiceItemInput{
			{Name: "Oil change", Price: decimal.RequireFromString("50.00")},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "50.00", updated.Total.StringFixed(2))
	assert.Len(t, updated.ProductItems, 0)
}

func TestDeleteEstimateGating(t *testing.T) {
	svc, db, node, clientID, vehicleID := setupEstimateService(t)
	ctx := context.Background()

	accepted, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)
	_, err = svc.Approve(ctx, accepted.ID.String())
	assert.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, accepted.ID.String()), domain.ErrNotPending)

	billed, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)
	assert.NoError(t, db.Create(&invoicedomain.Invoice{
		ID:         node.Generate(),
		ClientID:   clientID,
		EstimateID: &billed.ID,
		Status:     invoicedomain.StatusPending,
	}).Error)
	assert.ErrorIs(t, svc.Delete(ctx, billed.ID.String()), domain.ErrHasInvoice)

	removable, err := svc.Create(ctx, vectorRequest(clientID, vehicleID))
	assert.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, removable.ID.String()))

	var items int64
	assert.NoError(t, db.Model(&domain.ServiceItem{}).
		Where("estimate_id = ?", removable.ID).Count(&items).Error)
	assert.Zero(t, items)
}
