package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/pkg/database"
)

// PersonRepository implements repository.PersonRepository using PostgreSQL.
type PersonRepository struct {
	pool database.DBTX
}

// NewPersonRepository creates a new PostgreSQL-backed person repository.
func NewPersonRepository(pool database.DBTX) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// Create inserts a new person into the registry.
func (r *PersonRepository) Create(ctx context.Context, p *domain.Person) error {
	query := `
		INSERT INTO people (id, name, age, height, weight, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Age,
		p.Height,
		p.Weight,
		p.Description,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}

	return nil
}

// List returns every person, oldest first.
func (r *PersonRepository) List(ctx context.Context) ([]domain.Person, error) {
	query := `
		SELECT id, name, age, height, weight, description, created_at
		FROM people
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := make([]domain.Person, 0)
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Age,
			&p.Height,
			&p.Weight,
			&p.Description,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan person row: %w", err)
		}
		people = append(people, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person rows: %w", err)
	}

	return people, nil
}
