package service

import (
	"context"
	"testing"

	"github.com/autotech/workshop/internal/client/domain"
	"github.com/autotech/workshop/internal/client/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupClientService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Client{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestCreateClientValidation(t *testing.T) {
	svc, _ := setupClientService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateClientRequest{
		LastName:   "Diaz",
		ClientType: domain.ClientTypePersonal,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Carlos",
		LastName:   "Diaz",
		ClientType: "VIP",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClientType)
}

func TestDuplicateDNIRejected(t *testing.T) {
	svc, _ := setupClientService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Carlos",
		LastName:   "Diaz",
		DNI:        "30111222",
		ClientType: domain.ClientTypePersonal,
	})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Eva",
		LastName:   "Roca",
		DNI:        "30111222",
		ClientType: domain.ClientTypePersonal,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDNI)

	// Walk-in counter sales without a document never collide.
	_, err = svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Counter",
		LastName:   "Sale",
		ClientType: domain.ClientTypeWalkIn,
	})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Counter",
		LastName:   "Sale Two",
		ClientType: domain.ClientTypeWalkIn,
	})
	assert.NoError(t, err)

	// A client keeps its own DNI on update but cannot take another's.
	second, err := svc.Create(ctx, domain.CreateClientRequest{
		FirstName:  "Eva",
		LastName:   "Roca",
		DNI:        "30999888",
		ClientType: domain.ClientTypePersonal,
	})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, second.ID.String(), domain.UpdateClientRequest{
		FirstName:  "Eva",
		LastName:   "Roca",
		DNI:        "30999888",
		ClientType: domain.ClientTypeCompany,
	})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, second.ID.String(), domain.UpdateClientRequest{
		FirstName:  "Eva",
		LastName:   "Roca",
		DNI:        first.DNI,
		ClientType: domain.ClientTypePersonal,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDNI)
}

func TestListClientsByTypeAndQuery(t *testing.T) {
	svc, _ := setupClientService(t)
	ctx := context.Background()

	for _, seed := range []domain.CreateClientRequest{
		{FirstName: "Carlos", LastName: "Diaz", ClientType: domain.ClientTypePersonal},
		{FirstName: "Eva", LastName: "Roca", ClientType: domain.ClientTypePersonal},
		{FirstName: "Taller", LastName: "Norte", CommercialName: "Taller Norte SA", ClientType: domain.ClientTypeCompany},
	} {
		_, err := svc.Create(ctx, seed)
		assert.NoError(t, err)
	}

	companies := domain.ClientTypeCompany
	resp, err := svc.List(ctx, domain.ListClientRequest{ClientType: &companies})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 1)
	assert.Equal(t, "Taller Norte SA", resp.Clients[0].CommercialName)

	resp, err = svc.List(ctx, domain.ListClientRequest{Query: "Roca"})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 1)
	assert.Equal(t, "Eva", resp.Clients[0].FirstName)
}
