package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

type ReviewService struct {
	Businesses *repos.BusinessRepo
	Reviews    *repos.ReviewRepo
}

func NewReviewService(b *repos.BusinessRepo, r *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Businesses: b, Reviews: r}
}

type ReviewSummary struct {
	Reviews   []domain.Review `json:"reviews"`
	AvgRating float64         `json:"avg_rating"`
	Total     int             `json:"total"`
}

func (s *ReviewService) List(businessID int64) (ReviewSummary, error) {
	rs, err := s.Reviews.ListByBusiness(businessID)
	if err != nil {
		return ReviewSummary{}, err
	}
	avg, err := s.Reviews.Average(businessID)
	if err != nil {
		return ReviewSummary{}, err
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	return ReviewSummary{Reviews: rs, AvgRating: round1(avg), Total: len(rs)}, nil
}

// Add stores a review for an active business.
func (s *ReviewService) Add(businessID int64, author string, rating int, comment string) (domain.Review, error) {
	author, comment = strings.TrimSpace(author), strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return domain.Review{}, ErrInvalidRating
	}
	if author == "" || comment == "" {
		return domain.Review{}, fmt.Errorf("author and comment are required: %w", ErrInvalidInput)
	}
	b, err := s.Businesses.Get(businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, ErrNotFound
	}
	if err != nil {
		return domain.Review{}, err
	}
	if !b.Active {
		return domain.Review{}, ErrInactive
	}
	return s.Reviews.Create(domain.Review{BusinessID: businessID, Author: author, Rating: rating, Comment: comment})
}
