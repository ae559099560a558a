package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/pkg/database"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetActiveByIDs returns the active products among the given ids. Ids that do
// not exist or belong to inactive products are simply absent from the result.
func (r *ProductRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `
		SELECT id, name, sku, price, is_active, created_at, updated_at
		FROM products
		WHERE id = ANY($1) AND is_active = true`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SearchActive returns active products whose name contains the term,
// case-insensitively, ordered by name and capped at limit.
func (r *ProductRepository) SearchActive(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	query := `
		SELECT id, name, sku, price, is_active, created_at, updated_at
		FROM products
		WHERE is_active = true AND name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// scanProducts drains a result set of product rows.
func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.SKU,
			&p.Price,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
