package service

import (
	"context"
	"errors"
	"strings"

	"mishtee/internal/metrics"
	"mishtee/internal/model"
	"mishtee/internal/repository"
	"mishtee/internal/trending"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Display strings shown in place of data
const (
	GreetingInvalidPhone = "Please enter a valid mobile number."
	GreetingNewUser      = "Namaste! It looks like you are new here."
	NoticeNoData         = "No Data Available"
	NoticeTrendingError  = "Error Loading Trending"
)

const historyDateLayout = "2006-01-02"

// TrendingPublisher receives every freshly computed trending table
type TrendingPublisher interface {
	PublishTrending(table model.TrendingTable)
}

type StorefrontService interface {
	// Login runs the greeting, history and trending steps in sequence. Failures
	// are converted into display text and never returned.
	Login(ctx context.Context, phone string) model.Dashboard
	Trending(ctx context.Context) model.TrendingTable
	History(ctx context.Context, phone string, page, limit int) ([]model.HistoryRow, int64, error)
}

type storefrontService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	products  repository.ProductRepository
	txManager repository.TransactionManager
	publisher TrendingPublisher
	topK      int
}

// NewStorefrontService wires the dashboard orchestrator. publisher may be nil.
func NewStorefrontService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	txManager repository.TransactionManager,
	publisher TrendingPublisher,
	topK int,
) StorefrontService {
	return &storefrontService{
		customers: customers,
		orders:    orders,
		products:  products,
		txManager: txManager,
		publisher: publisher,
		topK:      topK,
	}
}

func Greeting(fullName string) string {
	return "Namaste, " + fullName + " ji! Great to see you again."
}

func (s *storefrontService) Login(ctx context.Context, phone string) model.Dashboard {
	phone = strings.TrimSpace(phone)
	dash := model.Dashboard{
		Phone:   phone,
		History: []model.HistoryRow{},
		Trending: model.TrendingTable{
			Entries: []model.TrendingEntry{},
		},
	}
	if phone == "" {
		metrics.RecordLogin(metrics.LoginInvalid)
		dash.Greeting = GreetingInvalidPhone
		return dash
	}

	dash.Greeting, dash.KnownUser, dash.History = s.greetAndHistory(ctx, phone)
	dash.Trending = s.Trending(ctx)
	return dash
}

func (s *storefrontService) greetAndHistory(ctx context.Context, phone string) (string, bool, []model.HistoryRow) {
	logger := log.WithField("phone", phone)
	empty := []model.HistoryRow{}

	customer, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordLogin(metrics.LoginNew)
			return GreetingNewUser, false, empty
		}
		logger.WithError(err).Error("customer lookup failed")
		metrics.RecordLogin(metrics.LoginError)
		return "Error connecting to Database: " + err.Error(), false, empty
	}

	orders, err := s.orders.ListByPhone(ctx, phone, 0, 0)
	if err != nil {
		logger.WithError(err).Error("order history lookup failed")
		metrics.RecordLogin(metrics.LoginError)
		return "Error retrieving orders: " + err.Error(), true, empty
	}

	metrics.RecordLogin(metrics.LoginKnown)
	logger.WithField("orders", len(orders)).Debug("customer logged in")
	return Greeting(customer.FullName), true, toHistoryRows(orders)
}

// Trending reads the sales and catalog snapshot and ranks it. A read failure
// degrades to an empty table with a notice.
func (s *storefrontService) Trending(ctx context.Context) model.TrendingTable {
	var sales []model.Sale
	var products []model.Product
	err := s.txManager.RunReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if sales, err = s.orders.ListSales(txCtx); err != nil {
			return err
		}
		products, err = s.products.ListAll(txCtx)
		return err
	})
	if err != nil {
		log.WithError(err).Error("error generating trending list")
		metrics.RecordTrending(metrics.TrendingError)
		return model.TrendingTable{Entries: []model.TrendingEntry{}, Notice: NoticeTrendingError}
	}

	table := model.TrendingTable{Entries: trending.Compute(sales, products, s.topK)}
	if len(table.Entries) == 0 {
		table.Notice = NoticeNoData
		metrics.RecordTrending(metrics.TrendingNoData)
	} else {
		metrics.RecordTrending(metrics.TrendingOK)
	}

	if s.publisher != nil {
		s.publisher.PublishTrending(table)
	}
	return table
}

func (s *storefrontService) History(ctx context.Context, phone string, page, limit int) ([]model.HistoryRow, int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, 0, errors.New("phone is required")
	}

	total, err := s.orders.CountByPhone(ctx, phone)
	if err != nil {
		return nil, 0, err
	}

	offset := 0
	if limit > 0 && page > 1 {
		offset = (page - 1) * limit
	}
	orders, err := s.orders.ListByPhone(ctx, phone, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toHistoryRows(orders), total, nil
}

func toHistoryRows(orders []model.Order) []model.HistoryRow {
	rows := make([]model.HistoryRow, 0, len(orders))
	for _, o := range orders {
		date := ""
		if !o.OrderDate.IsZero() {
			date = o.OrderDate.Format(historyDateLayout)
		}
		rows = append(rows, model.HistoryRow{
			Date:     date,
			SweetID:  o.ProductID,
			QtyKg:    nullString(o.QtyKg),
			TotalINR: nullString(o.OrderValueINR),
			Status:   o.Status,
		})
	}
	return rows
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
