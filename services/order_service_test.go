package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/garage-works/garage-orders-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mockPublisher records published events
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}

func (m *mockPublisher) eventTypes() []EventType {
	var types []EventType
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			types = append(types, call.Arguments.Get(1).(OrderEvent).Type)
		}
	}
	return types
}

// memoryCache is a map-backed ViewCache
type memoryCache struct {
	views       map[string]*models.OrderView
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{views: map[string]*models.OrderView{}}
}

func (c *memoryCache) Get(ctx context.Context, token string) (*models.OrderView, bool) {
	v, ok := c.views[token]
	return v, ok
}

func (c *memoryCache) Set(ctx context.Context, view *models.OrderView) {
	c.views[view.Token] = view
}

func (c *memoryCache) Invalidate(ctx context.Context, tokens ...string) {
	for _, t := range tokens {
		delete(c.views, t)
		c.invalidated = append(c.invalidated, t)
	}
}

// OrderServiceTestSuite runs the order service against an in-memory database
type OrderServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	cat    testutil.Catalog
	repos  *repository.Repositories
	events *mockPublisher
	cache  *memoryCache
	s3     *MockS3Service
	svc    *OrderService
	clock  time.Time
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

// SetupTest runs before each test
func (s *OrderServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.cat = testutil.SeedCatalog(s.T(), s.db)
	s.repos = repository.NewRepositories(s.db)

	s.events = &mockPublisher{}
	s.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	s.cache = newMemoryCache()
	s.s3 = NewMockS3Service()

	photos := NewPhotoService(s.repos.Orders, s.repos.Photos, s.s3, zap.NewNop())
	s.svc = NewOrderService(s.repos.Orders, s.repos.Catalog, s.events, s.cache, photos, zap.NewNop())

	// every order gets a distinct, increasing creation time
	s.clock = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s.svc.now = func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	}
}

func (s *OrderServiceTestSuite) createWithServices(serviceIDs ...uint) *CreatedOrder {
	created, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerID: s.cat.Customer.ID,
		VehicleID:  &s.cat.Vehicle.ID,
		EmployeeID: &s.cat.Employee.ID,
		TotalPrice: decimal.RequireFromString("150.00"),
		ServiceIDs: serviceIDs,
	})
	s.Require().NoError(err)
	return created
}

func serviceIDSet(view *models.OrderView) []uint {
	ids := make([]uint, 0, len(view.Services))
	for _, line := range view.Services {
		ids = append(ids, line.ServiceID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedIDs(ids ...uint) []uint {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func strPtr(v string) *string { return &v }

func (s *OrderServiceTestSuite) TestCreateThenGet() {
	created := s.createWithServices(s.cat.OilChange.ID, s.cat.Brakes.ID)

	s.True(IsValidOrderToken(created.Token))

	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)

	s.Equal(created.Token, view.Token)
	s.Equal(models.OrderStatusReceived, view.Status)
	s.Equal(sortedIDs(s.cat.OilChange.ID, s.cat.Brakes.ID), serviceIDSet(view))
	for _, line := range view.Services {
		s.False(line.Completed)
		s.Equal(models.ServiceStatusPending, line.Status)
	}
	s.Equal([]EventType{EventOrderCreated}, s.events.eventTypes())
}

func (s *OrderServiceTestSuite) TestCreateValidation() {
	tests := []struct {
		name    string
		in      CreateOrderInput
		wantErr bool
	}{
		{
			name:    "no services and no description",
			in:      CreateOrderInput{TotalPrice: decimal.NewFromInt(25)},
			wantErr: true,
		},
		{
			name:    "no services and blank description",
			in:      CreateOrderInput{Description: strPtr("   "), TotalPrice: decimal.NewFromInt(25)},
			wantErr: true,
		},
		{
			name:    "description with zero price",
			in:      CreateOrderInput{Description: strPtr("Strange noise"), TotalPrice: decimal.Zero},
			wantErr: true,
		},
		{
			name:    "description with positive price",
			in:      CreateOrderInput{Description: strPtr("Strange noise"), TotalPrice: decimal.RequireFromString("25.00")},
			wantErr: false,
		},
		{
			name:    "description with sub-cent price",
			in:      CreateOrderInput{Description: strPtr("Detail the interior"), TotalPrice: decimal.RequireFromString("0.004")},
			wantErr: true,
		},
		{
			name:    "price beyond column range",
			in:      CreateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}, TotalPrice: decimal.RequireFromString("100000000")},
			wantErr: true,
		},
		{
			name:    "negative price",
			in:      CreateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}, TotalPrice: decimal.NewFromInt(-1)},
			wantErr: true,
		},
		{
			name:    "duplicate service",
			in:      CreateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID, s.cat.OilChange.ID}},
			wantErr: true,
		},
		{
			name:    "services without description or price",
			in:      CreateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.in.CustomerID = s.cat.Customer.ID
			created, err := s.svc.CreateOrder(s.ctx, tt.in)
			if tt.wantErr {
				s.ErrorIs(err, ErrValidation)
				var vErr *ValidationError
				s.True(errors.As(err, &vErr))
				s.Nil(created)
			} else {
				s.NoError(err)
				s.NotNil(created)
			}
		})
	}

	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}})
	s.ErrorIs(err, ErrValidation, "customer is required")
}

func (s *OrderServiceTestSuite) TestCreateReferenceErrors() {
	missing := uint(9999)
	tests := []struct {
		name string
		in   CreateOrderInput
		kind string
	}{
		{"customer", CreateOrderInput{CustomerID: missing, ServiceIDs: []uint{s.cat.OilChange.ID}}, "customer"},
		{"vehicle", CreateOrderInput{CustomerID: s.cat.Customer.ID, VehicleID: &missing, ServiceIDs: []uint{s.cat.OilChange.ID}}, "vehicle"},
		{"employee", CreateOrderInput{CustomerID: s.cat.Customer.ID, EmployeeID: &missing, ServiceIDs: []uint{s.cat.OilChange.ID}}, "employee"},
		{"service", CreateOrderInput{CustomerID: s.cat.Customer.ID, ServiceIDs: []uint{s.cat.OilChange.ID, missing}}, "service"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.CreateOrder(s.ctx, tt.in)
			s.ErrorIs(err, ErrReference)

			var refErr *ReferenceError
			s.Require().True(errors.As(err, &refErr))
			s.Equal(tt.kind, refErr.Kind)
			s.Equal(missing, refErr.ID)
		})
	}

	var count int64
	s.db.Model(&models.Order{}).Count(&count)
	s.Zero(count)
	s.Empty(s.events.eventTypes())
}

func (s *OrderServiceTestSuite) TestCreateTokenCollision() {
	s.svc.newToken = func() (string, error) { return "0123456789abcdef0123456789abcdef", nil }

	s.createWithServices(s.cat.OilChange.ID)
	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerID: s.cat.Customer.ID,
		ServiceIDs: []uint{s.cat.Brakes.ID},
	})
	s.ErrorIs(err, ErrTokenCollision)

	var lines int64
	s.db.Model(&models.OrderServiceLine{}).Count(&lines)
	s.EqualValues(1, lines)
}

func (s *OrderServiceTestSuite) TestGetByTokenMatchesGetByID() {
	created := s.createWithServices(s.cat.Alignment.ID, s.cat.OilChange.ID)

	byID, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	byToken, err := s.svc.GetOrderByToken(s.ctx, created.Token)
	s.Require().NoError(err)
	s.Equal(byID, byToken)

	// second read is served from the cache
	s.Contains(s.cache.views, created.Token)
	cached, err := s.svc.GetOrderByToken(s.ctx, "  "+created.Token+" ")
	s.Require().NoError(err)
	s.Equal(byID, cached)
}

func (s *OrderServiceTestSuite) TestGetNotFound() {
	_, err := s.svc.GetOrder(s.ctx, 404)
	s.ErrorIs(err, ErrOrderNotFound)

	_, err = s.svc.GetOrderByToken(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrOrderNotFound)

	_, err = s.svc.GetOrderByToken(s.ctx, "0123456789abcdef0123456789abcdef")
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestDeleteIsIdempotent() {
	created := s.createWithServices(s.cat.OilChange.ID)
	_, err := s.svc.GetOrderByToken(s.ctx, created.Token)
	s.Require().NoError(err)

	photo := testutil.PNGFileHeader(s.T(), "front.png", []byte("png bytes"))
	_, err = s.svc.photos.Upload(s.ctx, created.OrderID, photo, "auth0|tech")
	s.Require().NoError(err)
	s.Len(s.s3.Keys(), 1)

	rows, err := s.svc.DeleteOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	// line, photo, status, info, header
	s.EqualValues(5, rows)
	s.Empty(s.s3.Keys())
	s.NotContains(s.cache.views, created.Token)

	for i := 0; i < 2; i++ {
		rows, err = s.svc.DeleteOrder(s.ctx, created.OrderID)
		s.ErrorIs(err, ErrOrderNotFound)
		s.Zero(rows)
	}

	_, err = s.svc.GetOrder(s.ctx, created.OrderID)
	s.ErrorIs(err, ErrOrderNotFound)
	s.Equal([]EventType{EventOrderCreated, EventOrderDeleted}, s.events.eventTypes())
}

func (s *OrderServiceTestSuite) TestUpdateFullReplace() {
	created := s.createWithServices(s.cat.OilChange.ID, s.cat.Brakes.ID)
	_, err := s.svc.GetOrderByToken(s.ctx, created.Token)
	s.Require().NoError(err)

	eta := time.Date(2024, 3, 5, 17, 0, 0, 0, time.UTC)
	status := models.OrderStatusInProgress
	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{
		Description:         strPtr("  Also check the horn "),
		EstimatedCompletion: &eta,
		Status:              &status,
		ServiceIDs:          []uint{s.cat.Brakes.ID, s.cat.Alignment.ID},
		CustomerNotes:       strPtr("Ready Tuesday"),
	})
	s.Require().NoError(err)
	s.NotContains(s.cache.views, created.Token)

	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal(sortedIDs(s.cat.Brakes.ID, s.cat.Alignment.ID), serviceIDSet(view))
	s.Equal(models.OrderStatusInProgress, view.Status)
	s.Equal("Also check the horn", *view.Description)
	s.Equal("Ready Tuesday", *view.CustomerNotes)
	s.Nil(view.CompletionDate)
	s.Require().NotNil(view.EstimatedCompletion)
	s.True(eta.Equal(*view.EstimatedCompletion))
	s.True(decimal.RequireFromString("150").Equal(view.TotalPrice))
}

func (s *OrderServiceTestSuite) TestUpdateWithoutServicesNeedsDescriptionAndPrice() {
	created := s.createWithServices(s.cat.OilChange.ID)

	err := s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{})
	s.ErrorIs(err, ErrValidation)

	zero := decimal.Zero
	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{Description: strPtr("Diagnose"), TotalPrice: &zero})
	s.ErrorIs(err, ErrValidation)

	// the stored price of 150 satisfies the rule
	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{Description: strPtr("Diagnose")})
	s.Require().NoError(err)

	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.NotNil(view.Services)
	s.Empty(view.Services)
}

func (s *OrderServiceTestSuite) TestUpdateErrors() {
	created := s.createWithServices(s.cat.OilChange.ID)

	bad := models.OrderStatus(9)
	err := s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{Status: &bad, ServiceIDs: []uint{s.cat.OilChange.ID}})
	s.ErrorIs(err, ErrValidation)

	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{ServiceIDs: []uint{777}})
	s.ErrorIs(err, ErrReference)

	err = s.svc.UpdateOrder(s.ctx, 404, UpdateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}})
	s.ErrorIs(err, ErrOrderNotFound)

	err = s.svc.UpdateOrder(s.ctx, 404, UpdateOrderInput{Description: strPtr("x")})
	s.ErrorIs(err, ErrOrderNotFound)

	// a missing order wins over an unknown service
	err = s.svc.UpdateOrder(s.ctx, 404, UpdateOrderInput{ServiceIDs: []uint{777}})
	s.ErrorIs(err, ErrOrderNotFound)

	tiny := decimal.RequireFromString("0.004")
	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{Description: strPtr("Detail the interior"), TotalPrice: &tiny})
	s.ErrorIs(err, ErrValidation)

	huge := decimal.RequireFromString("123456789.00")
	err = s.svc.UpdateOrder(s.ctx, created.OrderID, UpdateOrderInput{ServiceIDs: []uint{s.cat.OilChange.ID}, TotalPrice: &huge})
	s.ErrorIs(err, ErrValidation)
}

func (s *OrderServiceTestSuite) TestCreateRoundsPriceToCents() {
	created, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerID:  s.cat.Customer.ID,
		Description: strPtr("Detail the interior"),
		TotalPrice:  decimal.RequireFromString("0.005"),
	})
	s.Require().NoError(err)

	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal("0.01", view.TotalPrice.StringFixed(2))
}

func (s *OrderServiceTestSuite) TestListPagination() {
	for i := 0; i < 11; i++ {
		s.createWithServices(s.cat.OilChange.ID)
	}

	first, err := s.svc.ListOrders(s.ctx, 1, 10, "")
	s.Require().NoError(err)
	second, err := s.svc.ListOrders(s.ctx, 2, 10, "")
	s.Require().NoError(err)

	s.EqualValues(11, first.Total)
	s.Equal(2, first.TotalPages)
	s.Len(first.Items, 10)
	s.Len(second.Items, 1)

	seen := map[uint]bool{}
	for _, v := range append(first.Items, second.Items...) {
		s.False(seen[v.OrderID], "order %d listed twice", v.OrderID)
		seen[v.OrderID] = true
	}
	s.Len(seen, 11)

	// newest first
	s.True(first.Items[0].CreatedAt.After(first.Items[9].CreatedAt))

	normalized, err := s.svc.ListOrders(s.ctx, 0, 0, "")
	s.Require().NoError(err)
	s.Equal(1, normalized.Page)
	s.Equal(DefaultPageSize, normalized.PageSize)

	capped, err := s.svc.ListOrders(s.ctx, 1, 500, "")
	s.Require().NoError(err)
	s.Equal(MaxPageSize, capped.PageSize)
	s.Len(capped.Items, 11)
}

func (s *OrderServiceTestSuite) TestListSearch() {
	smith := testutil.CreateCustomer(s.T(), s.db, "John", "Smith", "john@example.com")
	smithCar := testutil.CreateVehicle(s.T(), s.db, smith.ID, "Honda", "Civic", 2020)
	blacksmith := testutil.CreateCustomer(s.T(), s.db, "Jane", "Doe", "jane.BLACKSMITH@example.com")

	for _, c := range []struct {
		customer uint
		vehicle  *uint
	}{{smith.ID, &smithCar.ID}, {blacksmith.ID, nil}, {s.cat.Customer.ID, &s.cat.Vehicle.ID}} {
		_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{CustomerID: c.customer, VehicleID: c.vehicle, ServiceIDs: []uint{s.cat.OilChange.ID}})
		s.Require().NoError(err)
	}

	page, err := s.svc.ListOrders(s.ctx, 1, 10, "smith")
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)
	s.Equal(1, page.TotalPages)
	for _, v := range page.Items {
		s.NotEqual(s.cat.Customer.ID, v.Customer.ID)
	}

	none, err := s.svc.ListOrders(s.ctx, 1, 10, "nobody")
	s.Require().NoError(err)
	s.Zero(none.Total)
	s.Zero(none.TotalPages)
	s.NotNil(none.Items)
}

func (s *OrderServiceTestSuite) TestStatusPromotion() {
	created := s.createWithServices(s.cat.OilChange.ID, s.cat.Brakes.ID, s.cat.Alignment.ID)
	ids := []uint{s.cat.OilChange.ID, s.cat.Brakes.ID, s.cat.Alignment.ID}

	for _, id := range ids[:2] {
		change, err := s.svc.UpdateServiceStatus(s.ctx, created.OrderID, id, "completed")
		s.Require().NoError(err)
		s.False(change.Promoted)
	}
	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusReceived, view.Status)

	change, err := s.svc.UpdateServiceStatus(s.ctx, created.OrderID, ids[2], "Completed")
	s.Require().NoError(err)
	s.True(change.Promoted)

	view, err = s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCompleted, view.Status)
	for _, line := range view.Services {
		s.True(line.Completed)
	}

	// regressing a line never demotes the order
	_, err = s.svc.UpdateServiceStatus(s.ctx, created.OrderID, ids[0], "in-progress")
	s.Require().NoError(err)
	view, err = s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCompleted, view.Status)

	s.Equal([]EventType{
		EventOrderCreated,
		EventServiceStatusChanged,
		EventServiceStatusChanged,
		EventServiceStatusChanged,
		EventOrderCompleted,
		EventServiceStatusChanged,
	}, s.events.eventTypes())
}

func (s *OrderServiceTestSuite) TestUpdateServiceStatusErrors() {
	created := s.createWithServices(s.cat.OilChange.ID)

	_, err := s.svc.UpdateServiceStatus(s.ctx, created.OrderID, s.cat.OilChange.ID, "finished")
	s.ErrorIs(err, ErrValidation)

	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal(models.ServiceStatusPending, view.Services[0].Status)

	_, err = s.svc.UpdateServiceStatus(s.ctx, created.OrderID, s.cat.Brakes.ID, "completed")
	s.ErrorIs(err, ErrServiceLineNotFound)

	_, err = s.svc.UpdateServiceStatus(s.ctx, 404, s.cat.OilChange.ID, "completed")
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestUpdateServiceNotes() {
	created := s.createWithServices(s.cat.OilChange.ID)

	s.Require().NoError(s.svc.UpdateServiceNotes(s.ctx, created.OrderID, s.cat.OilChange.ID, strPtr(" 5W-30 used ")))
	view, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Equal("5W-30 used", *view.Services[0].Notes)

	s.Require().NoError(s.svc.UpdateServiceNotes(s.ctx, created.OrderID, s.cat.OilChange.ID, strPtr("")))
	view, err = s.svc.GetOrder(s.ctx, created.OrderID)
	s.Require().NoError(err)
	s.Nil(view.Services[0].Notes)

	s.ErrorIs(s.svc.UpdateServiceNotes(s.ctx, created.OrderID, s.cat.Brakes.ID, nil), ErrServiceLineNotFound)
	s.ErrorIs(s.svc.UpdateServiceNotes(s.ctx, 404, s.cat.OilChange.ID, nil), ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestListOrdersForCustomer() {
	first := s.createWithServices(s.cat.OilChange.ID)
	second := s.createWithServices(s.cat.Brakes.ID)

	summaries, err := s.svc.ListOrdersForCustomer(s.ctx, s.cat.Customer.ID)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(second.OrderID, summaries[0].OrderID)
	s.Equal(first.Token, summaries[1].Token)

	none, err := s.svc.ListOrdersForCustomer(s.ctx, 9999)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *OrderServiceTestSuite) TestCascadeDeletes() {
	a := s.createWithServices(s.cat.OilChange.ID)
	b := s.createWithServices(s.cat.Brakes.ID)

	rows, err := s.svc.DeleteOrdersForVehicle(s.ctx, s.cat.Vehicle.ID)
	s.Require().NoError(err)
	s.EqualValues(2*4, rows)
	s.ElementsMatch([]string{a.Token, b.Token}, s.cache.invalidated)

	rows, err = s.svc.DeleteOrdersForVehicle(s.ctx, s.cat.Vehicle.ID)
	s.Require().NoError(err)
	s.Zero(rows)

	s.createWithServices(s.cat.OilChange.ID)
	rows, err = s.svc.DeleteOrdersForCustomer(s.ctx, s.cat.Customer.ID)
	s.Require().NoError(err)
	s.EqualValues(4, rows)

	rows, err = s.svc.DeleteOrdersForCustomer(s.ctx, 9999)
	s.Require().NoError(err)
	s.Zero(rows)
}

func (s *OrderServiceTestSuite) TestPublishFailureDoesNotFailMutation() {
	failing := &mockPublisher{}
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	s.svc.events = failing

	created := s.createWithServices(s.cat.OilChange.ID)
	_, err := s.svc.GetOrder(s.ctx, created.OrderID)
	s.NoError(err)
	failing.AssertNumberOfCalls(s.T(), "Publish", 1)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{250, 100, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.pageSize), func(t *testing.T) {
			if got := totalPages(tt.total, tt.pageSize); got != tt.want {
				t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}
