package service

import (
	"context"
	"testing"
	"time"

	"github.com/autotech/workshop/internal/bankaccount/domain"
	paymentdomain "github.com/autotech/workshop/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupBankAccountService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.BankAccount{}, &paymentdomain.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return svc, db, node
}

func TestBankAccountDefaultsActive(t *testing.T) {
	svc, _, _ := setupBankAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBankAccountRequest{
		Alias:         "Main",
		BankName:      "Banco Nacion",
		AccountNumber: "0011223344",
		Holder:        "Taller Norte SA",
	})
	assert.NoError(t, err)
	assert.True(t, created.Active)

	inactive := false
	dormant, err := svc.Create(ctx, domain.CreateBankAccountRequest{
		Alias:         "Old",
		AccountNumber: "9988776655",
		Active:        &inactive,
	})
	assert.NoError(t, err)
	assert.False(t, dormant.Active)
}

func TestDeleteBankAccountInUse(t *testing.T) {
	svc, db, node := setupBankAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBankAccountRequest{
		Alias:         "Main",
		AccountNumber: "0011223344",
	})
	assert.NoError(t, err)

	assert.NoError(t, db.Create(&paymentdomain.Payment{
		ID:            node.Generate(),
		InvoiceID:     node.Generate(),
		PaymentDate:   time.Now().UTC(),
		Amount:        decimal.RequireFromString("100.00"),
		PaymentType:   paymentdomain.PaymentTypeBankAccount,
		BankAccountID: &created.ID,
	}).Error)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrInUse)

	unused, err := svc.Create(ctx, domain.CreateBankAccountRequest{
		Alias:         "Spare",
		AccountNumber: "5544332211",
	})
	assert.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, unused.ID.String()))

	_, err = svc.GetByID(ctx, unused.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
