package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

// CatalogRepo serves read-only snapshots of the searchable catalog.
type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) ActiveBusinesses(ctx context.Context) ([]domain.Business, error) {
	var out []domain.Business
	err := r.db.SelectContext(ctx, &out, `SELECT`+businessCols+` FROM businesses WHERE active = 1 ORDER BY id`)
	return out, err
}

// InStockProducts returns products with stock left whose business is active.
func (r *CatalogRepo) InStockProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.SelectContext(ctx, &out, `
	  SELECT p.id, p.business_id, p.name, p.description, p.price, p.stock, p.image_url
	  FROM products p
	  JOIN businesses b ON b.id = p.business_id
	  WHERE p.stock > 0 AND b.active = 1
	  ORDER BY p.id
	`)
	return out, err
}
