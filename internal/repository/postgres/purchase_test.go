package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/pkg/database"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
)

// --- Test Helpers ---

func newPurchaseTestRepo(t *testing.T) (*PurchaseRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewPurchaseRepository(mock)
	return repo, mock
}

func samplePurchase() *domain.Purchase {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Purchase{
		ID:           "purchase-001",
		CustomerName: "Acme Corp",
		Date:         now,
		Total:        12500,
		CreatedAt:    now,
		Lines: []domain.PurchaseLine{
			{
				ID:         "line-001",
				PurchaseID: "purchase-001",
				ProductID:  "prod-001",
				Quantity:   1,
				UnitPrice:  7500,
			},
			{
				ID:          "line-002",
				PurchaseID:  "purchase-001",
				ProductID:   "prod-002",
				Quantity:    2,
				Description: "gift wrap",
				UnitPrice:   2500,
			},
		},
	}
}

// --- Create Tests ---

func TestPurchaseRepository_Create_Success(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	p := samplePurchase()

	mock.ExpectBegin()

	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(p.ID, p.CustomerName, p.Date, p.Total, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, line := range p.Lines {
		mock.ExpectExec("INSERT INTO purchase_lines").
			WithArgs(
				line.ID, line.PurchaseID, line.ProductID,
				line.Quantity, line.Description, line.UnitPrice,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_Create_BeginError(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), samplePurchase())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_Create_LineInsertError(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	p := samplePurchase()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(p.ID, p.CustomerName, p.Date, p.Total, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// First line succeeds.
	line0 := p.Lines[0]
	mock.ExpectExec("INSERT INTO purchase_lines").
		WithArgs(line0.ID, line0.PurchaseID, line0.ProductID, line0.Quantity, line0.Description, line0.UnitPrice).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Second line fails.
	line1 := p.Lines[1]
	mock.ExpectExec("INSERT INTO purchase_lines").
		WithArgs(line1.ID, line1.PurchaseID, line1.ProductID, line1.Quantity, line1.Description, line1.UnitPrice).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert purchase line")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID Tests ---

func TestPurchaseRepository_GetByID_Success(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	linesJSON, err := json.Marshal([]map[string]any{
		{
			"id":           "line-001",
			"purchase_id":  "purchase-001",
			"product_id":   "prod-001",
			"product_name": "Widget",
			"quantity":     1,
			"description":  "",
			"unit_price":   7500,
		},
		{
			"id":           "line-002",
			"purchase_id":  "purchase-001",
			"product_id":   "prod-002",
			"product_name": "Gadget",
			"quantity":     2,
			"description":  "gift wrap",
			"unit_price":   2500,
		},
	})
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "purchase_date", "total", "created_at", "lines",
	}).AddRow(
		"purchase-001", "Acme Corp", now, int64(12500), now, linesJSON,
	)

	mock.ExpectQuery("SELECT").
		WithArgs("purchase-001").
		WillReturnRows(rows)

	purchase, err := repo.GetByID(context.Background(), "purchase-001")
	require.NoError(t, err)
	require.NotNil(t, purchase)

	assert.Equal(t, "purchase-001", purchase.ID)
	assert.Equal(t, "Acme Corp", purchase.CustomerName)
	assert.Equal(t, int64(12500), purchase.Total)

	require.Len(t, purchase.Lines, 2)
	assert.Equal(t, "line-001", purchase.Lines[0].ID)
	assert.Equal(t, "Widget", purchase.Lines[0].ProductName)
	assert.Equal(t, int64(7500), purchase.Lines[0].UnitPrice)
	assert.Equal(t, "line-002", purchase.Lines[1].ID)
	assert.Equal(t, "Gadget", purchase.Lines[1].ProductName)
	assert.Equal(t, 2, purchase.Lines[1].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_GetByID_NoLines(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "purchase_date", "total", "created_at", "lines",
	}).AddRow(
		"purchase-002", "Empty Cart Ltd", now, int64(0), now, []byte("[]"),
	)

	mock.ExpectQuery("SELECT").
		WithArgs("purchase-002").
		WillReturnRows(rows)

	purchase, err := repo.GetByID(context.Background(), "purchase-002")
	require.NoError(t, err)
	require.NotNil(t, purchase)

	assert.Empty(t, purchase.Lines)
	assert.NotNil(t, purchase.Lines) // should be [] not nil

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT").
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	purchase, err := repo.GetByID(context.Background(), "nonexistent-id")
	assert.Nil(t, purchase)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestPurchaseRepository_List_Success(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "purchase_date", "total", "created_at", "total_count",
	}).
		AddRow("purchase-001", "Acme Corp", now, int64(12500), now, 2).
		AddRow("purchase-002", "Globex", now.Add(-24*time.Hour), int64(3000), now, 2)

	mock.ExpectQuery("SELECT .+ FROM purchases").
		WithArgs(10, 0).
		WillReturnRows(rows)

	purchases, total, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, purchases, 2)
	assert.Equal(t, "purchase-001", purchases[0].ID)
	assert.Equal(t, "Globex", purchases[1].CustomerName)
	assert.Empty(t, purchases[0].Lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_List_Empty(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "purchase_date", "total", "created_at", "total_count",
	})

	mock.ExpectQuery("SELECT .+ FROM purchases").
		WithArgs(20, 0).
		WillReturnRows(rows)

	purchases, total, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, total)
	assert.Empty(t, purchases)
	assert.NotNil(t, purchases) // should be [] not nil

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_List_QueryError(t *testing.T) {
	repo, mock := newPurchaseTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT .+ FROM purchases").
		WithArgs(20, 0).
		WillReturnError(errors.New("database timeout"))

	purchases, total, err := repo.List(context.Background(), 20, 0)
	assert.Nil(t, purchases)
	assert.Equal(t, 0, total)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list purchases")

	assert.NoError(t, mock.ExpectationsWereMet())
}
