package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BackofficeGo/pkg/database"
)

func newProductTestRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func productColumns() []string {
	return []string{"id", "name", "sku", "price", "is_active", "created_at", "updated_at"}
}

// --- GetActiveByIDs Tests ---

func TestProductRepository_GetActiveByIDs_Success(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(productColumns()).
		AddRow("prod-001", "Widget", "WDG-001", int64(7500), true, now, now).
		AddRow("prod-002", "Gadget", "GDG-001", int64(2500), true, now, now)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs([]string{"prod-001", "prod-002"}).
		WillReturnRows(rows)

	products, err := repo.GetActiveByIDs(context.Background(), []string{"prod-001", "prod-002"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, int64(2500), products[1].Price)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetActiveByIDs_MissingIDsAbsent(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	// Only one of the two requested ids resolves to an active product.
	rows := pgxmock.NewRows(productColumns()).
		AddRow("prod-001", "Widget", "WDG-001", int64(7500), true, now, now)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs([]string{"prod-001", "prod-inactive"}).
		WillReturnRows(rows)

	products, err := repo.GetActiveByIDs(context.Background(), []string{"prod-001", "prod-inactive"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-001", products[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetActiveByIDs_EmptyInput(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	// No query expected for an empty id list.
	products, err := repo.GetActiveByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetActiveByIDs_QueryError(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs([]string{"prod-001"}).
		WillReturnError(errors.New("database timeout"))

	products, err := repo.GetActiveByIDs(context.Background(), []string{"prod-001"})
	assert.Nil(t, products)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query products by ids")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- SearchActive Tests ---

func TestProductRepository_SearchActive_Success(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(productColumns()).
		AddRow("prod-002", "Gadget", "GDG-001", int64(2500), true, now, now).
		AddRow("prod-003", "Gadget Pro", "GDG-002", int64(4500), true, now, now)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs("gad", 10).
		WillReturnRows(rows)

	products, err := repo.SearchActive(context.Background(), "gad", 10)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[0].Name)
	assert.Equal(t, "Gadget Pro", products[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SearchActive_NoMatches(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	rows := pgxmock.NewRows(productColumns())

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs("zzz", 10).
		WillReturnRows(rows)

	products, err := repo.SearchActive(context.Background(), "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SearchActive_QueryError(t *testing.T) {
	repo, mock := newProductTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs("wid", 10).
		WillReturnError(errors.New("connection reset"))

	products, err := repo.SearchActive(context.Background(), "wid", 10)
	assert.Nil(t, products)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search products")

	assert.NoError(t, mock.ExpectationsWereMet())
}
