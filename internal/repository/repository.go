package repository

import (
	"context"
	"time"

	"github.com/utafrali/BackofficeGo/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email, matched case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// ProductRepository defines the interface for catalog reads.
type ProductRepository interface {
	// GetActiveByIDs returns the active products among the given ids.
	GetActiveByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// SearchActive returns active products whose name contains the term,
	// case-insensitively, ordered by name and capped at limit.
	SearchActive(ctx context.Context, term string, limit int) ([]domain.Product, error)
}

// PersonRepository defines the interface for people registry persistence.
type PersonRepository interface {
	// Create inserts a new person into the registry.
	Create(ctx context.Context, person *domain.Person) error

	// List returns every person in insertion order.
	List(ctx context.Context) ([]domain.Person, error)
}

// PurchaseRepository defines the interface for purchase persistence operations.
type PurchaseRepository interface {
	// Create inserts a purchase and its lines atomically.
	Create(ctx context.Context, purchase *domain.Purchase) error

	// GetByID retrieves a purchase with its lines and product names joined in.
	GetByID(ctx context.Context, id string) (*domain.Purchase, error)

	// List returns purchase summaries (no lines), newest first, with the
	// total count for pagination.
	List(ctx context.Context, limit, offset int) ([]domain.Purchase, int, error)
}

// MonthlyBucket is one month of aggregated purchases.
type MonthlyBucket struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int   `json:"count"`
	Total int64 `json:"total"`
}

// DailyBucket is one day of aggregated purchases.
type DailyBucket struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Total int64     `json:"total"`
}

// KPIs are headline sales figures over a date range.
type KPIs struct {
	PurchaseCount int   `json:"purchase_count"`
	TotalSales    int64 `json:"total_sales"`
	AverageTicket int64 `json:"average_ticket"`
	TotalItems    int64 `json:"total_items"`
}

// ProductSales is aggregated quantity and revenue for a product.
type ProductSales struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

// ReportRepository defines the read-only aggregation queries.
type ReportRepository interface {
	// MonthlyPurchases returns per-month buckets for purchases since the
	// given time, oldest first.
	MonthlyPurchases(ctx context.Context, since time.Time) ([]MonthlyBucket, error)

	// DailySales returns per-day buckets for purchases in [from, to],
	// oldest first. Days with no purchases are absent.
	DailySales(ctx context.Context, from, to time.Time) ([]DailyBucket, error)

	// SalesKPIs returns headline figures for purchases in [from, to].
	SalesKPIs(ctx context.Context, from, to time.Time) (*KPIs, error)

	// TopProducts returns the best-selling products by revenue in [from, to].
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}
