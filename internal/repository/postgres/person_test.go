package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/pkg/database"
)

func newPersonTestRepo(t *testing.T) (*PersonRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewPersonRepository(mock)
	return repo, mock
}

func personColumns() []string {
	return []string{"id", "name", "age", "height", "weight", "description", "created_at"}
}

// --- Create Tests ---

func TestPersonRepository_Create_Success(t *testing.T) {
	repo, mock := newPersonTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)
	person := &domain.Person{
		ID:          "per-001",
		Name:        "Ada Lovelace",
		Age:         36,
		Height:      1.65,
		Weight:      58.5,
		Description: "Mathematician",
		CreatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO people").
		WithArgs(person.ID, person.Name, person.Age, person.Height, person.Weight, person.Description, person.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), person)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepository_Create_InsertError(t *testing.T) {
	repo, mock := newPersonTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("INSERT INTO people").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &domain.Person{ID: "per-001", Name: "Ada Lovelace"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert person")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestPersonRepository_List_Success(t *testing.T) {
	repo, mock := newPersonTestRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(personColumns()).
		AddRow("per-001", "Ada Lovelace", 36, 1.65, 58.5, "Mathematician", now).
		AddRow("per-002", "Alan Turing", 41, 1.78, 72.0, "", now.Add(time.Minute))

	mock.ExpectQuery("SELECT .+ FROM people").
		WillReturnRows(rows)

	people, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Ada Lovelace", people[0].Name)
	assert.Equal(t, 41, people[1].Age)
	assert.InDelta(t, 1.78, people[1].Height, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepository_List_Empty(t *testing.T) {
	repo, mock := newPersonTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT .+ FROM people").
		WillReturnRows(pgxmock.NewRows(personColumns()))

	people, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
	assert.NotNil(t, people)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepository_List_QueryError(t *testing.T) {
	repo, mock := newPersonTestRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT .+ FROM people").
		WillReturnError(errors.New("database timeout"))

	people, err := repo.List(context.Background())
	assert.Nil(t, people)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list people")

	assert.NoError(t, mock.ExpectationsWereMet())
}
