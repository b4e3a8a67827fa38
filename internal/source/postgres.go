package source

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-service/internal/models"
)

// productRow mirrors the products view exposed to the storefront. The
// view denormalizes the brand name so a single select loads the whole
// catalog.
type productRow struct {
	ID          int64      `gorm:"column:id"`
	Name        string     `gorm:"column:name"`
	Brand       *string    `gorm:"column:brand"`
	BrandName   *string    `gorm:"column:brand_name"`
	Sport       string     `gorm:"column:sport"`
	Price       float64    `gorm:"column:price"`
	Rating      *float64   `gorm:"column:rating"`
	InStock     *bool      `gorm:"column:in_stock"`
	CreatedAt   *time.Time `gorm:"column:created_at"`
	ImageURL    *string    `gorm:"column:image_url"`
	Category    *string    `gorm:"column:category"`
	Subcategory *string    `gorm:"column:subcategory"`
}

func (productRow) TableName() string {
	return "products_view"
}

// PostgresSource loads the catalog from a Postgres products view.
type PostgresSource struct {
	db    *gorm.DB
	limit int
}

var _ Source = (*PostgresSource)(nil)

// NewPostgresSource connects to the database behind dsn. limit bounds
// the snapshot size (newest products win).
func NewPostgresSource(dsn string, limit int) (*PostgresSource, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	if limit <= 0 {
		limit = 500
	}
	return &PostgresSource{db: db, limit: limit}, nil
}

func gormlogger() logger.Interface {
	return logger.Default.LogMode(logger.Error)
}

func (s *PostgresSource) Name() string { return "postgres" }

// Load selects the catalog newest-first and maps rows into products,
// applying display defaults for nullable columns (rating 4.5, in
// stock) the way the storefront has always treated sparse rows.
func (s *PostgresSource) Load(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(s.limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, mapRow(row))
	}
	return products, nil
}

func mapRow(row productRow) models.Product {
	p := models.Product{
		ID:      row.ID,
		Name:    row.Name,
		Sport:   row.Sport,
		Price:   row.Price,
		Rating:  4.5,
		InStock: true,
		Image:   row.ImageURL,
	}
	if row.BrandName != nil && *row.BrandName != "" {
		p.Brand = *row.BrandName
	} else if row.Brand != nil {
		p.Brand = *row.Brand
	}
	if row.Rating != nil {
		p.Rating = *row.Rating
	}
	if row.InStock != nil {
		p.InStock = *row.InStock
	}
	if row.CreatedAt != nil {
		p.AddedAt = *row.CreatedAt
	}
	if row.Category != nil {
		p.Category = *row.Category
	}
	if row.Subcategory != nil {
		p.Subcategory = *row.Subcategory
	}
	return p
}
