package services

import (
	"database/sql"
	"errors"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

type InventoryService struct {
	Products *repos.ProductRepo
}

func NewInventoryService(products *repos.ProductRepo) *InventoryService {
	return &InventoryService{Products: products}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID int64) (domain.Availability, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		// unknown products read as sold out
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockStatus(0), nil
		}
		return domain.Availability{}, err
	}
	return domain.StockStatus(p.Stock), nil
}
