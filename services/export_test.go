package services

import (
	"context"
	"testing"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/garage-works/garage-orders-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportOrders(t *testing.T) {
	db := testutil.NewTestDB(t)
	cat := testutil.SeedCatalog(t, db)
	repos := repository.NewRepositories(db)
	svc := NewOrderService(repos.Orders, repos.Catalog, nil, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: cat.Customer.ID,
		VehicleID:  &cat.Vehicle.ID,
		TotalPrice: decimal.RequireFromString("89.9"),
		ServiceIDs: []uint{cat.OilChange.ID, cat.Brakes.ID},
	})
	require.NoError(t, err)

	f, filename, err := svc.ExportOrders(ctx, "")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "orders_20240502_093000.xlsx", filename)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, orderExportHeaders, rows[0])

	row := rows[1]
	assert.Equal(t, created.Token, row[1])
	assert.Equal(t, "2024-05-02 09:30", row[2])
	assert.Equal(t, "received", row[3])
	assert.Equal(t, "Ada Lovelace", row[4])
	assert.Equal(t, "ada@example.com", row[5])
	assert.Equal(t, "2018 Toyota Corolla", row[6])
	assert.Equal(t, "89.90", row[8])
	assert.Equal(t, "Brake Inspection (pending), Oil Change (pending)", row[11])
}

func TestExportOrdersFiltersBySearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	cat := testutil.SeedCatalog(t, db)
	repos := repository.NewRepositories(db)
	svc := NewOrderService(repos.Orders, repos.Catalog, nil, nil, nil, zap.NewNop())

	createTrackedOrder(t, repos.Orders, cat, cat.OilChange.ID)

	f, _, err := svc.ExportOrders(context.Background(), "no such customer")
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportLabels(t *testing.T) {
	assert.Empty(t, vehicleLabel(nil))
	assert.Empty(t, employeeLabel(nil))
	assert.Empty(t, formatDate(nil))
	assert.Equal(t, "Grace Hopper", employeeLabel(&models.EmployeeRef{FirstName: "Grace", LastName: "Hopper"}))

	d := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-09", formatDate(&d))
	assert.Empty(t, serviceNames(nil))
}
