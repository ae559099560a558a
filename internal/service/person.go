package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/internal/repository"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
)

// PersonService implements the people registry.
type PersonService struct {
	personRepo repository.PersonRepository
	logger     *slog.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(personRepo repository.PersonRepository, logger *slog.Logger) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		logger:     logger,
	}
}

// CreatePersonInput holds the parameters for registering a person.
type CreatePersonInput struct {
	Name        string
	Age         int
	Height      float64
	Weight      float64
	Description string
}

// CreatePerson validates the request and stores the person.
func (s *PersonService) CreatePerson(ctx context.Context, input CreatePersonInput) (*domain.Person, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Age < 0 {
		return nil, apperrors.InvalidInput("age cannot be negative")
	}
	if input.Height <= 0 {
		return nil, apperrors.InvalidInput("height must be positive")
	}
	if input.Weight <= 0 {
		return nil, apperrors.InvalidInput("weight must be positive")
	}

	person := &domain.Person{
		ID:          uuid.New().String(),
		Name:        name,
		Age:         input.Age,
		Height:      input.Height,
		Weight:      input.Weight,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}

	s.logger.InfoContext(ctx, "person registered",
		slog.String("person_id", person.ID),
	)

	return person, nil
}

// ListPeople returns the full registry in insertion order.
func (s *PersonService) ListPeople(ctx context.Context) ([]domain.Person, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}
