package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/internal/event"
	"github.com/utafrali/BackofficeGo/internal/repository"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
	"github.com/utafrali/BackofficeGo/pkg/pagination"
)

// Purchase dates may not be recorded more than a day ahead or more than
// thirty days back.
const (
	maxPurchaseDateAhead  = 24 * time.Hour
	maxPurchaseDateBehind = 30 * 24 * time.Hour
)

// PurchaseService implements purchase recording and retrieval. Unit prices
// are frozen from the catalog at creation time; the total is always computed
// server-side.
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	producer     *event.Producer
	logger       *slog.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		producer:     producer,
		logger:       logger,
	}
}

// CreatePurchaseInput holds the parameters for recording a purchase.
type CreatePurchaseInput struct {
	CustomerName string
	Date         time.Time
	Lines        []CreatePurchaseLineInput
}

// CreatePurchaseLineInput is one requested line. The unit price is never
// taken from the caller.
type CreatePurchaseLineInput struct {
	ProductID   string
	Quantity    int
	Description string
}

// CreatePurchase validates the request, freezes catalog prices into the
// lines, computes the total, and stores purchase and lines atomically.
func (s *PurchaseService) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	if date.After(now.Add(maxPurchaseDateAhead)) {
		return nil, apperrors.InvalidInput("purchase date cannot be more than one day in the future")
	}
	if date.Before(now.Add(-maxPurchaseDateBehind)) {
		return nil, apperrors.InvalidInput("purchase date cannot be more than thirty days in the past")
	}

	if len(input.Lines) == 0 {
		return nil, apperrors.InvalidInput("at least one purchase line is required")
	}
	for _, line := range input.Lines {
		if line.ProductID == "" {
			return nil, apperrors.InvalidInput("product id is required on every line")
		}
		if line.Quantity < 1 {
			return nil, apperrors.InvalidInput("quantity must be at least 1")
		}
	}

	products, err := s.resolveProducts(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		ID:           uuid.New().String(),
		CustomerName: customerName,
		Date:         date,
		CreatedAt:    now,
	}

	lines := make([]domain.PurchaseLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		product := products[line.ProductID]
		lines = append(lines, domain.PurchaseLine{
			ID:          uuid.New().String(),
			PurchaseID:  purchase.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Description: line.Description,
			UnitPrice:   product.Price,
		})
	}
	purchase.Lines = lines
	purchase.Total = purchase.ComputeTotal()

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	if err := s.producer.PublishPurchaseCreated(ctx, purchase); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish purchase.created event",
			slog.String("purchase_id", purchase.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "purchase created",
		slog.String("purchase_id", purchase.ID),
		slog.Int64("total", purchase.Total),
		slog.Int("lines", len(purchase.Lines)),
	)

	return purchase, nil
}

// GetPurchase returns the full purchase view with lines and product names.
func (s *PurchaseService) GetPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return purchase, nil
}

// ListPurchases returns purchase summaries, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, params pagination.Params) (*pagination.Result[domain.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params.PerPage, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	result := pagination.NewResult(purchases, total, params)
	return &result, nil
}

// resolveProducts loads the active products referenced by the lines. When any
// distinct product id fails to resolve, the whole request is rejected.
func (s *PurchaseService) resolveProducts(ctx context.Context, lines []CreatePurchaseLineInput) (map[string]domain.Product, error) {
	distinct := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		distinct = append(distinct, line.ProductID)
	}

	products, err := s.productRepo.GetActiveByIDs(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	if len(products) != len(distinct) {
		return nil, apperrors.InvalidInput("one or more products missing or inactive")
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return byID, nil
}
