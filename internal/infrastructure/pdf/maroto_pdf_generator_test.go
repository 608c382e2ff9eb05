package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/infrastructure/pdf"
)

func TestGenerateExpiringReport(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	report := usecase.ExpiringReport{
		Before:      now.AddDate(0, 0, 7),
		GeneratedAt: now,
		Items: []entity.Product{
			{ID: 1, Name: "Milk", Price: decimal.RequireFromString("4.50"), Stock: 12, ExpirationDate: now.AddDate(0, 0, -1)},
			{ID: 2, Name: "Yogurt", Price: decimal.RequireFromString("1.20"), Stock: 40, ExpirationDate: now.AddDate(0, 0, 3), Discounted: true},
		},
	}

	out, err := pdf.NewMarotoPDFGenerator("perishables-api").GenerateExpiringReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateExpiringReport_Empty(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator("x").GenerateExpiringReport(context.Background(), usecase.ExpiringReport{
		Before:      time.Now(),
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
