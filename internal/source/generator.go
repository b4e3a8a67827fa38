package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"storefront-service/internal/models"
)

// Fixture vocabularies for the generated catalog.
var (
	generatorSports = []string{"Badminton", "Football", "Basketball", "Tennis", "Running", "Fitness"}
	generatorBrands = []string{"Yonex", "Li Ning", "Taan", "Victor", "Kumpoo"}
	apparelSubs     = []string{"t-shirts", "shorts", "skirts", "socks", "sneakers"}
	accessorySubs   = []string{"grips", "bags"}
)

const productsPerSport = 18

// GeneratorSource produces a deterministic synthetic catalog. It is a
// fixture for development and for running without a configured
// database, not production data: the same seed always yields the same
// catalog, which keeps deep links and tests reproducible.
type GeneratorSource struct {
	seed int64
	now  time.Time
}

var _ Source = (*GeneratorSource)(nil)

// NewGeneratorSource creates a generator for the given seed. The
// recency of generated products is anchored at now.
func NewGeneratorSource(seed int64, now time.Time) *GeneratorSource {
	return &GeneratorSource{seed: seed, now: now}
}

func (g *GeneratorSource) Name() string { return "generator" }

// Load builds the full synthetic catalog.
func (g *GeneratorSource) Load(_ context.Context) ([]models.Product, error) {
	rng := rand.New(rand.NewSource(g.seed))
	products := make([]models.Product, 0, len(generatorSports)*productsPerSport)

	var id int64 = 1
	for _, sport := range generatorSports {
		for i := 0; i < productsPerSport; i++ {
			brand := generatorBrands[(i+len(sport))%len(generatorBrands)]
			name := fmt.Sprintf("%s — %s #%d", sport, brand, i+1)
			price := float64(800 + rng.Intn(20001))
			rating := float64(30+rng.Intn(21)) / 10 // 3.0 - 5.0
			inStock := rng.Float64() > 0.2
			addedAt := g.now.AddDate(0, 0, -rng.Intn(120))

			category, subcategory := assignCategory(i)
			image := placeholderImage(name)

			products = append(products, models.Product{
				ID:          id,
				Name:        name,
				Brand:       brand,
				Sport:       sport,
				Price:       price,
				Rating:      rating,
				InStock:     inStock,
				AddedAt:     addedAt,
				Image:       &image,
				Category:    category,
				Subcategory: subcategory,
			})
			id++
		}
	}
	return products, nil
}

// assignCategory spreads products over the browsing categories;
// rackets carry no subcategory.
func assignCategory(i int) (string, string) {
	switch i % 3 {
	case 0:
		return "Apparel", apparelSubs[i%len(apparelSubs)]
	case 1:
		return "Accessories", accessorySubs[i%len(accessorySubs)]
	default:
		return "Rackets", ""
	}
}

// placeholderImage derives a stable stock-photo URL from the product
// name so the same product always shows the same picture.
func placeholderImage(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("https://picsum.photos/seed/%d/600/400", h.Sum32()%1000)
}
