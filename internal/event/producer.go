package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/BackofficeGo/internal/domain"
	pkgkafka "github.com/utafrali/BackofficeGo/pkg/kafka"
)

// Kafka topics for back-office domain events.
var (
	TopicUserRegistered  = pkgkafka.Topic("user", "registered")
	TopicUserVerified    = pkgkafka.Topic("user", "verified")
	TopicPurchaseCreated = pkgkafka.Topic("purchase", "created")
)

// Aggregate type constants.
const (
	AggregateTypeUser     = "user"
	AggregateTypePurchase = "purchase"
)

// Source identifier for events originating from this service.
const Source = "backoffice"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserVerifiedData is the payload for a user.verified event.
type UserVerifiedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PurchaseCreatedData is the payload for a purchase.created event.
type PurchaseCreatedData struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Total        int64  `json:"total"`
	LineCount    int    `json:"line_count"`
}

// Producer publishes back-office domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	return nil
}

// PublishUserVerified publishes a user.verified event.
func (p *Producer) PublishUserVerified(ctx context.Context, user *domain.User) error {
	data := UserVerifiedData{
		ID:    user.ID,
		Email: user.Email,
	}

	event, err := pkgkafka.NewEvent(TopicUserVerified, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.verified event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserVerified, event); err != nil {
		return fmt.Errorf("publish user.verified event: %w", err)
	}

	return nil
}

// PublishPurchaseCreated publishes a purchase.created event.
func (p *Producer) PublishPurchaseCreated(ctx context.Context, purchase *domain.Purchase) error {
	data := PurchaseCreatedData{
		ID:           purchase.ID,
		CustomerName: purchase.CustomerName,
		Total:        purchase.Total,
		LineCount:    len(purchase.Lines),
	}

	event, err := pkgkafka.NewEvent(TopicPurchaseCreated, purchase.ID, AggregateTypePurchase, Source, data)
	if err != nil {
		return fmt.Errorf("create purchase.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPurchaseCreated, event); err != nil {
		return fmt.Errorf("publish purchase.created event: %w", err)
	}

	return nil
}
