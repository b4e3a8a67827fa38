package source

import (
	"context"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// Source supplies the ordered product collection the storefront
// browses. Implementations load the whole catalog in one shot; there
// is no incremental refresh.
type Source interface {
	Load(ctx context.Context) ([]models.Product, error)
	Name() string
}

// LoadWithFallback tries the primary source once and switches to the
// fallback when the primary is nil or fails. A load failure is a local
// recovery, never a user-facing error: the storefront must always have
// something to render.
func LoadWithFallback(ctx context.Context, primary Source, fallback Source, logger *logrus.Logger) ([]models.Product, string, error) {
	if primary != nil {
		products, err := primary.Load(ctx)
		if err == nil {
			return products, primary.Name(), nil
		}
		logger.WithError(err).WithField("source", primary.Name()).
			Warn("Catalog load failed, falling back to generated catalog")
	}
	products, err := fallback.Load(ctx)
	if err != nil {
		return nil, fallback.Name(), err
	}
	return products, fallback.Name(), nil
}
