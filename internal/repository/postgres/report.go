package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/BackofficeGo/internal/repository"
	"github.com/utafrali/BackofficeGo/pkg/database"
)

// ReportRepository implements repository.ReportRepository using PostgreSQL.
// All methods are read-only aggregations over purchases.
type ReportRepository struct {
	pool database.DBTX
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool database.DBTX) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// MonthlyPurchases returns per-month purchase buckets since the given time,
// oldest first. Months with no purchases are absent.
func (r *ReportRepository) MonthlyPurchases(ctx context.Context, since time.Time) ([]repository.MonthlyBucket, error) {
	query := `
		SELECT EXTRACT(YEAR FROM purchase_date)::int AS year,
			   EXTRACT(MONTH FROM purchase_date)::int AS month,
			   count(*) AS count,
			   COALESCE(SUM(total), 0) AS total
		FROM purchases
		WHERE purchase_date >= $1
		GROUP BY year, month
		ORDER BY year, month`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query monthly purchases: %w", err)
	}
	defer rows.Close()

	buckets := make([]repository.MonthlyBucket, 0)
	for rows.Next() {
		var b repository.MonthlyBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("scan monthly bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly buckets: %w", err)
	}

	return buckets, nil
}

// DailySales returns per-day purchase buckets for [from, to], oldest first.
// Days with no purchases are absent; callers zero-fill the gaps.
func (r *ReportRepository) DailySales(ctx context.Context, from, to time.Time) ([]repository.DailyBucket, error) {
	query := `
		SELECT DATE_TRUNC('day', purchase_date) AS day,
			   count(*) AS count,
			   COALESCE(SUM(total), 0) AS total
		FROM purchases
		WHERE purchase_date >= $1 AND purchase_date <= $2
		GROUP BY day
		ORDER BY day`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily sales: %w", err)
	}
	defer rows.Close()

	buckets := make([]repository.DailyBucket, 0)
	for rows.Next() {
		var b repository.DailyBucket
		if err := rows.Scan(&b.Date, &b.Count, &b.Total); err != nil {
			return nil, fmt.Errorf("scan daily bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily buckets: %w", err)
	}

	return buckets, nil
}

// SalesKPIs returns headline sales figures for [from, to]. The average ticket
// is zero when there are no purchases in the range.
func (r *ReportRepository) SalesKPIs(ctx context.Context, from, to time.Time) (*repository.KPIs, error) {
	query := `
		SELECT count(pu.id) AS purchase_count,
			   COALESCE(SUM(pu.total), 0) AS total_sales,
			   COALESCE((SELECT SUM(pl.quantity)
					FROM purchase_lines pl
					JOIN purchases p2 ON pl.purchase_id = p2.id
					WHERE p2.purchase_date >= $1 AND p2.purchase_date <= $2), 0) AS total_items
		FROM purchases pu
		WHERE pu.purchase_date >= $1 AND pu.purchase_date <= $2`

	var k repository.KPIs
	err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&k.PurchaseCount,
		&k.TotalSales,
		&k.TotalItems,
	)
	if err != nil {
		return nil, fmt.Errorf("scan sales kpis: %w", err)
	}

	if k.PurchaseCount > 0 {
		k.AverageTicket = k.TotalSales / int64(k.PurchaseCount)
	}

	return &k, nil
}

// TopProducts returns the best-selling products by revenue in [from, to].
func (r *ReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	query := `
		SELECT pl.product_id, pr.name,
			   SUM(pl.quantity) AS quantity,
			   SUM(pl.unit_price * pl.quantity) AS revenue
		FROM purchase_lines pl
		JOIN purchases pu ON pl.purchase_id = pu.id
		JOIN products pr ON pl.product_id = pr.id
		WHERE pu.purchase_date >= $1 AND pu.purchase_date <= $2
		GROUP BY pl.product_id, pr.name
		ORDER BY revenue DESC, pr.name
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	products := make([]repository.ProductSales, 0)
	for rows.Next() {
		var p repository.ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product sales: %w", err)
	}

	return products, nil
}
