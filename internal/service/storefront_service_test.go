package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mishtee/internal/model"
	"mishtee/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomers struct {
	customers map[string]string
	err       error
	calls     int
}

func (f *fakeCustomers) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	name, ok := f.customers[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.Customer{Phone: phone, FullName: name}, nil
}

type fakeOrders struct {
	orders       []model.Order
	sales        []model.Sale
	historyErr   error
	salesErr     error
	historyCalls int
	lastOffset   int
	lastLimit    int
}

func (f *fakeOrders) ListByPhone(_ context.Context, phone string, offset, limit int) ([]model.Order, error) {
	f.historyCalls++
	f.lastOffset, f.lastLimit = offset, limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []model.Order
	for _, o := range f.orders {
		if o.CustPhone == phone {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) CountByPhone(ctx context.Context, phone string) (int64, error) {
	if f.historyErr != nil {
		return 0, f.historyErr
	}
	var n int64
	for _, o := range f.orders {
		if o.CustPhone == phone {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrders) ListSales(context.Context) ([]model.Sale, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}

type fakeProducts struct {
	products []model.Product
	err      error
}

func (f *fakeProducts) ListAll(context.Context) ([]model.Product, error) {
	return f.products, f.err
}

type recordingPublisher struct {
	tables []model.TrendingTable
}

func (p *recordingPublisher) PublishTrending(table model.TrendingTable) {
	p.tables = append(p.tables, table)
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type fixture struct {
	customers *fakeCustomers
	orders    *fakeOrders
	products  *fakeProducts
	publisher *recordingPublisher
	svc       StorefrontService
}

func newFixture() *fixture {
	f := &fixture{
		customers: &fakeCustomers{customers: map[string]string{"9998887776": "Asha"}},
		orders: &fakeOrders{
			orders: []model.Order{
				{ProductID: "P2", QtyKg: dec("5"), OrderDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), OrderValueINR: dec("2000"), Status: "Pending", CustPhone: "9998887776"},
				{ProductID: "P1", QtyKg: dec("3"), OrderDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Status: "Delivered", CustPhone: "9998887776"},
			},
			sales: []model.Sale{
				{ProductID: "P1", QtyKg: dec("3")},
				{ProductID: "P2", QtyKg: dec("5")},
				{ProductID: "P1", QtyKg: dec("2")},
			},
		},
		products: &fakeProducts{products: []model.Product{
			{ItemID: "P1", SweetName: "Kaju Katli", VariantType: "Classic", PricePerKg: decimal.NewFromInt(800)},
			{ItemID: "P2", SweetName: "Rasgulla", VariantType: "Soft", PricePerKg: decimal.NewFromInt(400)},
		}},
		publisher: &recordingPublisher{},
	}
	f.svc = NewStorefrontService(f.customers, f.orders, f.products,
		repository.NewPassthroughTransactionManager(), f.publisher, 4)
	return f
}

func TestLoginKnownCustomer(t *testing.T) {
	f := newFixture()

	dash := f.svc.Login(context.Background(), " 9998887776 ")

	assert.Equal(t, "9998887776", dash.Phone)
	assert.Equal(t, "Namaste, Asha ji! Great to see you again.", dash.Greeting)
	assert.True(t, dash.KnownUser)
	require.Len(t, dash.History, 2)
	assert.Equal(t, model.HistoryRow{Date: "2026-02-01", SweetID: "P2", QtyKg: "5", TotalINR: "2000", Status: "Pending"}, dash.History[0])
	assert.Equal(t, "", dash.History[1].TotalINR)

	require.Len(t, dash.Trending.Entries, 2)
	assert.Equal(t, "Kaju Katli (Classic)", dash.Trending.Entries[0].Label)
	assert.Empty(t, dash.Trending.Notice)
	require.Len(t, f.publisher.tables, 1)
}

func TestLoginEmptyPhoneSkipsBackend(t *testing.T) {
	f := newFixture()

	dash := f.svc.Login(context.Background(), "   ")

	assert.Equal(t, GreetingInvalidPhone, dash.Greeting)
	assert.Empty(t, dash.History)
	assert.Empty(t, dash.Trending.Entries)
	assert.Zero(t, f.customers.calls)
	assert.Empty(t, f.publisher.tables)
}

func TestLoginNewUserSkipsHistory(t *testing.T) {
	f := newFixture()

	dash := f.svc.Login(context.Background(), "1234567890")

	assert.Equal(t, GreetingNewUser, dash.Greeting)
	assert.False(t, dash.KnownUser)
	assert.Empty(t, dash.History)
	assert.Zero(t, f.orders.historyCalls)
	assert.Len(t, dash.Trending.Entries, 2)
}

func TestLoginCustomerLookupFailure(t *testing.T) {
	f := newFixture()
	f.customers.err = errors.New("dial tcp: connection refused")

	dash := f.svc.Login(context.Background(), "9998887776")

	assert.Equal(t, "Error connecting to Database: dial tcp: connection refused", dash.Greeting)
	assert.Empty(t, dash.History)
	assert.Len(t, dash.Trending.Entries, 2)
}

func TestLoginHistoryFailure(t *testing.T) {
	f := newFixture()
	f.orders.historyErr = errors.New("timeout")

	dash := f.svc.Login(context.Background(), "9998887776")

	assert.Equal(t, "Error retrieving orders: timeout", dash.Greeting)
	assert.Empty(t, dash.History)
}

func TestTrendingDegradesOnReadFailure(t *testing.T) {
	f := newFixture()
	f.products.err = errors.New("relation does not exist")

	table := f.svc.Trending(context.Background())

	assert.Empty(t, table.Entries)
	assert.Equal(t, NoticeTrendingError, table.Notice)
	assert.Empty(t, f.publisher.tables)
}

func TestTrendingNoData(t *testing.T) {
	f := newFixture()
	f.orders.sales = nil

	table := f.svc.Trending(context.Background())

	assert.Empty(t, table.Entries)
	assert.Equal(t, NoticeNoData, table.Notice)
}

func TestHistoryPaginates(t *testing.T) {
	f := newFixture()

	rows, total, err := f.svc.History(context.Background(), "9998887776", 3, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
	assert.Equal(t, 20, f.orders.lastOffset)
	assert.Equal(t, 10, f.orders.lastLimit)

	_, _, err = f.svc.History(context.Background(), "", 1, 10)
	assert.Error(t, err)

	f.orders.historyErr = errors.New("down")
	_, _, err = f.svc.History(context.Background(), "9998887776", 1, 10)
	assert.Error(t, err)
}
