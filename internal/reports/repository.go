package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository answers aggregate questions over recorded sales. All folding
// happens in SQL so report endpoints stay cheap on large histories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const summarySQL = `
SELECT
  COUNT(*) AS ticket_count,
  COALESCE(SUM(total), 0) AS total_sales,
  COALESCE(SUM(tax), 0) AS total_tax
FROM sales
WHERE issued_at >= ? AND issued_at < ?
`

const netProfitSQL = `
SELECT COALESCE(SUM((sl.unit_price - p.purchase_price) * sl.quantity), 0) AS net_profit
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
JOIN products p ON p.id = sl.product_id
WHERE s.issued_at >= ? AND s.issued_at < ?
`

const criticalStockSQL = `
SELECT COUNT(*) AS critical_count
FROM products
WHERE is_active = ? AND stock <= min_stock
`

const dailySQL = `
SELECT
  CAST(DATE(issued_at) AS TEXT) AS day,
  COUNT(*) AS ticket_count,
  COALESCE(SUM(total), 0) AS total_sales
FROM sales
WHERE issued_at >= ? AND issued_at < ?
GROUP BY CAST(DATE(issued_at) AS TEXT)
ORDER BY day ASC
`

const byCategorySQL = `
SELECT
  COALESCE(c.name, 'SIN CATEGORÍA') AS category,
  COALESCE(SUM(sl.line_total), 0) AS total_sales,
  COALESCE(SUM(sl.quantity), 0) AS units
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
JOIN products p ON p.id = sl.product_id
LEFT JOIN categories c ON c.id = p.category_id
WHERE s.issued_at >= ? AND s.issued_at < ?
GROUP BY COALESCE(c.name, 'SIN CATEGORÍA')
ORDER BY total_sales DESC
`

const topProductsSQL = `
SELECT
  sl.product_sku AS sku,
  sl.product_name AS name,
  COALESCE(SUM(sl.quantity), 0) AS units,
  COALESCE(SUM(sl.line_total), 0) AS total_sales
FROM sale_lines sl
JOIN sales s ON s.id = sl.sale_id
WHERE s.issued_at >= ? AND s.issued_at < ?
GROUP BY sl.product_sku, sl.product_name
ORDER BY units DESC, total_sales DESC
LIMIT ?
`

// SummaryRow carries the period KPIs.
type SummaryRow struct {
	TicketCount   int64
	TotalSales    decimal.Decimal
	TotalTax      decimal.Decimal
	NetProfit     decimal.Decimal
	CriticalStock int64
}

// DailyRow is one day of sales activity.
type DailyRow struct {
	Day         string
	TicketCount int64
	TotalSales  decimal.Decimal
}

// CategoryRow aggregates revenue per product category.
type CategoryRow struct {
	Category   string
	TotalSales decimal.Decimal
	Units      int64
}

// TopProductRow ranks a product by units sold in the period.
type TopProductRow struct {
	SKU        string
	Name       string
	Units      int64
	TotalSales decimal.Decimal
}

// Summary computes the period KPIs plus the current critical stock count.
func (r *Repository) Summary(ctx context.Context, from, to time.Time) (*SummaryRow, error) {
	var row SummaryRow
	if err := r.db.WithContext(ctx).Raw(summarySQL, from, to).Scan(&row).Error; err != nil {
		return nil, err
	}

	var profit struct{ NetProfit decimal.Decimal }
	if err := r.db.WithContext(ctx).Raw(netProfitSQL, from, to).Scan(&profit).Error; err != nil {
		return nil, err
	}
	row.NetProfit = profit.NetProfit

	var critical struct{ CriticalCount int64 }
	if err := r.db.WithContext(ctx).Raw(criticalStockSQL, true).Scan(&critical).Error; err != nil {
		return nil, err
	}
	row.CriticalStock = critical.CriticalCount
	return &row, nil
}

// Daily returns one row per day with sales in the period.
func (r *Repository) Daily(ctx context.Context, from, to time.Time) ([]DailyRow, error) {
	var rows []DailyRow
	err := r.db.WithContext(ctx).Raw(dailySQL, from, to).Scan(&rows).Error
	return rows, err
}

// ByCategory returns revenue grouped by product category.
func (r *Repository) ByCategory(ctx context.Context, from, to time.Time) ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.db.WithContext(ctx).Raw(byCategorySQL, from, to).Scan(&rows).Error
	return rows, err
}

// TopProducts returns the best sellers of the period by units.
func (r *Repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).Raw(topProductsSQL, from, to, limit).Scan(&rows).Error
	return rows, err
}
