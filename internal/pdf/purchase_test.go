package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BackofficeGo/internal/domain"
)

func TestRenderPurchase(t *testing.T) {
	purchase := &domain.Purchase{
		ID:           "purchase-001",
		CustomerName: "Acme Corp",
		Date:         time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Total:        22500,
		Lines: []domain.PurchaseLine{
			{ID: "line-001", ProductID: "prod-001", ProductName: "Widget", Quantity: 2, UnitPrice: 7500},
			{ID: "line-002", ProductID: "prod-002", ProductName: "Gadget", Quantity: 3, Description: "gift wrap", UnitPrice: 2500},
		},
	}

	data, err := RenderPurchase(purchase)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// PDF magic bytes.
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderPurchase_NoLines(t *testing.T) {
	purchase := &domain.Purchase{
		ID:           "purchase-002",
		CustomerName: "Globex",
		Date:         time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	}

	data, err := RenderPurchase(purchase)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{12550, "125.50"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.cents))
	}
}
