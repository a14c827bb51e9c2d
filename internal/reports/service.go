package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/construplaza/construplaza-backend/pkg/errors"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 50
)

// Period is a half-open [From, To) reporting window.
type Period struct {
	From time.Time
	To   time.Time
}

// CurrentMonth returns the period covering the month of now.
func CurrentMonth(now time.Time) Period {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

// SummaryDTO carries the dashboard KPIs.
type SummaryDTO struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TicketCount   int64           `json:"ticket_count"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	CriticalStock int64           `json:"critical_stock"`
}

// DailyPointDTO is one point of the daily sales series.
type DailyPointDTO struct {
	Day         string          `json:"day"`
	TicketCount int64           `json:"ticket_count"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// CategorySliceDTO aggregates revenue per category.
type CategorySliceDTO struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Units      int64           `json:"units"`
}

// TopProductDTO ranks one product for the period.
type TopProductDTO struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Units      int64           `json:"units"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// Service serves the reporting endpoints.
type Service interface {
	Summary(ctx context.Context, period Period) (*SummaryDTO, error)
	Daily(ctx context.Context, period Period) ([]DailyPointDTO, error)
	ByCategory(ctx context.Context, period Period) ([]CategorySliceDTO, error)
	TopProducts(ctx context.Context, period Period, limit int) ([]TopProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a reports service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summary(ctx context.Context, period Period) (*SummaryDTO, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	row, err := s.repo.Summary(ctx, period.From, period.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute summary")
	}

	averageTicket := decimal.Zero
	if row.TicketCount > 0 {
		averageTicket = row.TotalSales.Div(decimal.NewFromInt(row.TicketCount)).Round(2)
	}
	return &SummaryDTO{
		From:          period.From,
		To:            period.To,
		TicketCount:   row.TicketCount,
		TotalSales:    row.TotalSales,
		TotalTax:      row.TotalTax,
		NetProfit:     row.NetProfit,
		AverageTicket: averageTicket,
		CriticalStock: row.CriticalStock,
	}, nil
}

func (s *service) Daily(ctx context.Context, period Period) ([]DailyPointDTO, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	rows, err := s.repo.Daily(ctx, period.From, period.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute daily series")
	}
	points := make([]DailyPointDTO, len(rows))
	for i, row := range rows {
		points[i] = DailyPointDTO{Day: row.Day, TicketCount: row.TicketCount, TotalSales: row.TotalSales}
	}
	return points, nil
}

func (s *service) ByCategory(ctx context.Context, period Period) ([]CategorySliceDTO, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	rows, err := s.repo.ByCategory(ctx, period.From, period.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute category split")
	}
	slices := make([]CategorySliceDTO, len(rows))
	for i, row := range rows {
		slices[i] = CategorySliceDTO{Category: row.Category, TotalSales: row.TotalSales, Units: row.Units}
	}
	return slices, nil
}

func (s *service) TopProducts(ctx context.Context, period Period, limit int) ([]TopProductDTO, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	rows, err := s.repo.TopProducts(ctx, period.From, period.To, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute top products")
	}
	top := make([]TopProductDTO, len(rows))
	for i, row := range rows {
		top[i] = TopProductDTO{SKU: row.SKU, Name: row.Name, Units: row.Units, TotalSales: row.TotalSales}
	}
	return top, nil
}

func validatePeriod(period Period) error {
	if period.From.IsZero() || period.To.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "report period required")
	}
	if !period.To.After(period.From) {
		return pkgerrors.New(pkgerrors.CodeValidation, "period end must be after start")
	}
	return nil
}
