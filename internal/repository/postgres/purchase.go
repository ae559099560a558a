package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/pkg/database"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
)

// PurchaseRepository implements repository.PurchaseRepository using PostgreSQL.
type PurchaseRepository struct {
	pool database.DBTX
}

// NewPurchaseRepository creates a new PostgreSQL-backed purchase repository.
func NewPurchaseRepository(pool database.DBTX) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// Create inserts a purchase and its lines atomically within a transaction.
func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	purchaseQuery := `
		INSERT INTO purchases (id, customer_name, purchase_date, total, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, purchaseQuery,
		p.ID,
		p.CustomerName,
		p.Date,
		p.Total,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	lineQuery := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, description, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range p.Lines {
		_, err = tx.Exec(ctx, lineQuery,
			line.ID,
			line.PurchaseID,
			line.ProductID,
			line.Quantity,
			line.Description,
			line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert purchase line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a purchase by its ID, eagerly loading its lines with
// product names joined in. A single query with LEFT JOIN + JSONB_AGG avoids
// the N+1 problem.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	query := `
		SELECT
			pu.id, pu.customer_name, pu.purchase_date, pu.total, pu.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', pl.id,
						'purchase_id', pl.purchase_id,
						'product_id', pl.product_id,
						'product_name', pr.name,
						'quantity', pl.quantity,
						'description', pl.description,
						'unit_price', pl.unit_price
					) ORDER BY pl.id
				) FILTER (WHERE pl.id IS NOT NULL),
				'[]'::jsonb
			) AS lines
		FROM purchases pu
		LEFT JOIN purchase_lines pl ON pu.id = pl.purchase_id
		LEFT JOIN products pr ON pl.product_id = pr.id
		WHERE pu.id = $1
		GROUP BY pu.id, pu.customer_name, pu.purchase_date, pu.total, pu.created_at`

	var (
		p         domain.Purchase
		linesJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.CustomerName,
		&p.Date,
		&p.Total,
		&p.CreatedAt,
		&linesJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan purchase: %w", err)
	}

	if len(linesJSON) > 0 && string(linesJSON) != "null" && string(linesJSON) != "[]" {
		if err := json.Unmarshal(linesJSON, &p.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal purchase lines: %w", err)
		}
	} else {
		p.Lines = []domain.PurchaseLine{}
	}

	return &p, nil
}

// List returns purchase summaries without lines, newest first, along with the
// total count for pagination. count(*) OVER() folds the count into one query.
func (r *PurchaseRepository) List(ctx context.Context, limit, offset int) ([]domain.Purchase, int, error) {
	query := `
		SELECT id, customer_name, purchase_date, total, created_at,
			   count(*) OVER() AS total_count
		FROM purchases
		ORDER BY purchase_date DESC, created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var totalCount int
	purchases := make([]domain.Purchase, 0)

	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(
			&p.ID,
			&p.CustomerName,
			&p.Date,
			&p.Total,
			&p.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan purchase row: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate purchase rows: %w", err)
	}

	return purchases, totalCount, nil
}
