package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

type ProductService struct {
	Businesses *repos.BusinessRepo
	Products   *repos.ProductRepo
}

func NewProductService(b *repos.BusinessRepo, p *repos.ProductRepo) *ProductService {
	return &ProductService{Businesses: b, Products: p}
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

// Add lists a new product; only the business owner may do it.
func (s *ProductService) Add(u *domain.User, businessID int64, in ProductInput) (domain.Product, error) {
	if _, err := s.Businesses.Get(businessID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, err
	}
	if !u.Owns(businessID) {
		return domain.Product{}, ErrNotOwner
	}
	p := domain.Product{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if p.Name == "" || p.Price <= 0 || p.Stock < 0 {
		return domain.Product{}, fmt.Errorf("name and a positive price are required: %w", ErrInvalidInput)
	}
	id, err := s.Products.Create(p)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func (s *ProductService) owned(u *domain.User, productID int64) (domain.Product, error) {
	p, err := s.Products.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	if !u.Owns(p.BusinessID) {
		return p, ErrNotOwner
	}
	return p, nil
}

func (s *ProductService) Delete(u *domain.User, productID int64) error {
	if _, err := s.owned(u, productID); err != nil {
		return err
	}
	return s.Products.Delete(productID)
}

// SetStock lets an owner restock or adjust a product.
func (s *ProductService) SetStock(u *domain.User, productID int64, qty int) error {
	if qty < 0 {
		return fmt.Errorf("stock cannot be negative: %w", ErrInvalidInput)
	}
	if _, err := s.owned(u, productID); err != nil {
		return err
	}
	return s.Products.SetStock(productID, qty)
}
