package service

import (
	"context"
	"testing"

	appointmentdomain "github.com/autotech/workshop/internal/appointment/domain"
	clientdomain "github.com/autotech/workshop/internal/client/domain"
	employeedomain "github.com/autotech/workshop/internal/employee/domain"
	invoicedomain "github.com/autotech/workshop/internal/invoice/domain"
	"github.com/autotech/workshop/internal/repairorder/domain"
	"github.com/autotech/workshop/internal/repairorder/repository"
	vehicledomain "github.com/autotech/workshop/internal/vehicle/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clientID  snowflake.ID
	vehicleID snowflake.ID
}

func setupOrderService(t *testing.T) orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&vehicledomain.Vehicle{},
		&employeedomain.Employee{},
		&appointmentdomain.Appointment{},
		&domain.RepairOrder{},
		&domain.OrderEmployee{},
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
		FirstName:  "Carlos",
		LastName:   "Diaz",
		ClientType: clientdomain.ClientTypePersonal,
	}).Error)
	assert.NoError(t, db.Create(&vehicledomain.Vehicle{
		ID:       vehicleID,
		ClientID: clientID,
		Plate:    "KL456MN",
		Brand:    "Renault",
		Model:    "Kangoo",
	}).Error)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return orderFixture{svc: svc, db: db, node: node, clientID: clientID, vehicleID: vehicleID}
}

func TestCreateRepairOrderNumbersAndTitles(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
		Reason:    "knocking noise",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, "RO-1 Diaz - KL456MN", first.Title)
	assert.Equal(t, domain.StatusVehicleIntake, first.Status)

	second, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), second.Number)
}

func TestCreateRejectsForeignVehicle(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	otherClient := f.node.Generate()
	otherVehicle := f.node.Generate()
	assert.NoError(t, f.db.Create(&clientdomain.Client{
		ID:         otherClient,
		FirstName:  "Eva",
		LastName:   "Roca",
		ClientType: clientdomain.ClientTypePersonal,
	}).Error)
	assert.NoError(t, f.db.Create(&vehicledomain.Vehicle{
		ID:       otherVehicle,
		ClientID: otherClient,
		Plate:    "QQ111QQ",
		Brand:    "Fiat",
		Model:    "Uno",
	}).Error)

	_, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: otherVehicle.String(),
	})
	assert.ErrorIs(t, err, domain.ErrVehicleMismatch)
}

func TestIntakeStatusesAreEntryOnly(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)

	// Moving between the two intake states is allowed.
	_, err = f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusDiagnosis)
	assert.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusInRepair)
	assert.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusVehicleIntake)
	assert.ErrorIs(t, err, domain.ErrIntakeNotReentrant)
	_, err = f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusDiagnosis)
	assert.ErrorIs(t, err, domain.ErrIntakeNotReentrant)
}

func TestDeliveredTimestampFollowsStatus(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)

	delivered, err := f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusDelivered)
	assert.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	reopened, err := f.svc.UpdateStatus(ctx, order.ID.String(), domain.StatusInRepair)
	assert.NoError(t, err)
	assert.Nil(t, reopened.DeliveredAt)
}

func TestAssignEmployeesReplacesCrew(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	mechanicA := f.node.Generate()
	mechanicB := f.node.Generate()
	for _, id := range []snowflake.ID{mechanicA, mechanicB} {
		assert.NoError(t, f.db.Create(&employeedomain.Employee{
			ID:        id,
			FirstName: "Mech",
			LastName:  id.String(),
			Status:    employeedomain.EmployeeStatusActive,
		}).Error)
	}

	order, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:    f.clientID.String(),
		VehicleID:   f.vehicleID.String(),
		EmployeeIDs: []string{mechanicA.String()},
	})
	assert.NoError(t, err)
	assert.Len(t, order.Employees, 1)

	updated, err := f.svc.AssignEmployees(ctx, order.ID.String(), []string{mechanicB.String()})
	assert.NoError(t, err)
	assert.Len(t, updated.Employees, 1)
	assert.Equal(t, mechanicB, updated.Employees[0].EmployeeID)

	_, err = f.svc.AssignEmployees(ctx, order.ID.String(), []string{f.node.Generate().String()})
	assert.ErrorIs(t, err, employeedomain.ErrNotFound)
}

func TestDeleteOrderRefusedWhenBilled(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)

	assert.NoError(t, f.db.Create(&invoicedomain.Invoice{
		ID:            f.node.Generate(),
		ClientID:      f.clientID,
		RepairOrderID: &order.ID,
		Status:        invoicedomain.StatusPending,
	}).Error)

	assert.ErrorIs(t, f.svc.Delete(ctx, order.ID.String()), domain.ErrHasInvoice)
}

func TestWorkHistoryNewestFirst(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)
	second, err := f.svc.Create(ctx, domain.CreateRepairOrderRequest{
		ClientID:  f.clientID.String(),
		VehicleID: f.vehicleID.String(),
	})
	assert.NoError(t, err)

	history, err := f.svc.WorkHistory(ctx, f.vehicleID.String())
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, second.Number, history[0].Number)
	assert.Equal(t, first.Number, history[1].Number)

	_, err = f.svc.WorkHistory(ctx, f.node.Generate().String())
	assert.ErrorIs(t, err, vehicledomain.ErrNotFound)
}
