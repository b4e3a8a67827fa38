package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := NewGeneratorSource(42, now).Load(ctx)
	require.NoError(t, err)
	second, err := NewGeneratorSource(42, now).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := NewGeneratorSource(43, now).Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGeneratorShape(t *testing.T) {
	products, err := NewGeneratorSource(1, time.Now()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(generatorSports)*productsPerSport)

	seen := make(map[int64]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate product id %d", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Brand)
		assert.NotEmpty(t, p.Sport)
		assert.GreaterOrEqual(t, p.Price, float64(800))
		assert.GreaterOrEqual(t, p.Rating, 3.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.NotEmpty(t, p.Category)
	}
}

type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }
func (brokenSource) Load(context.Context) ([]models.Product, error) {
	return nil, errors.New("connection refused")
}

func TestLoadWithFallback(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	ctx := context.Background()
	fallback := NewGeneratorSource(7, time.Now())

	// Failing primary falls back to the generator.
	products, name, err := LoadWithFallback(ctx, brokenSource{}, fallback, logger)
	require.NoError(t, err)
	assert.Equal(t, "generator", name)
	assert.NotEmpty(t, products)

	// Nil primary goes straight to the generator.
	products, name, err = LoadWithFallback(ctx, nil, fallback, logger)
	require.NoError(t, err)
	assert.Equal(t, "generator", name)
	assert.NotEmpty(t, products)
}
