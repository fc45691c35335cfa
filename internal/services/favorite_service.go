package services

import (
	"database/sql"
	"errors"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

type FavoriteService struct {
	Repo       *repos.FavoriteRepo
	Businesses *repos.BusinessRepo
}

func NewFavoriteService(r *repos.FavoriteRepo, b *repos.BusinessRepo) *FavoriteService {
	return &FavoriteService{Repo: r, Businesses: b}
}

// Save is idempotent: favoriting twice keeps one entry.
func (s *FavoriteService) Save(userID, businessID int64) error {
	b, err := s.Businesses.Get(businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !b.Active {
		return ErrInactive
	}
	return s.Repo.Add(userID, businessID)
}

func (s *FavoriteService) Unsave(userID, businessID int64) error {
	return s.Repo.Remove(userID, businessID)
}

func (s *FavoriteService) List(userID int64) ([]domain.Business, error) {
	return s.Repo.List(userID)
}
