package repos

import (
	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(rv domain.Review) (domain.Review, error) {
	res, err := r.db.Exec(`
	  INSERT INTO reviews(business_id, author, rating, comment)
	  VALUES(?,?,?,?)
	`, rv.BusinessID, rv.Author, rv.Rating, rv.Comment)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, err
	}
	err = r.db.Get(&rv, `SELECT id, business_id, author, rating, comment, created_at FROM reviews WHERE id = ?`, id)
	return rv, err
}

// ListByBusiness returns reviews newest first.
func (r *ReviewRepo) ListByBusiness(businessID int64) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.Select(&out, `
	  SELECT id, business_id, author, rating, comment, created_at
	  FROM reviews
	  WHERE business_id = ?
	  ORDER BY created_at DESC, id DESC
	`, businessID)
	return out, err
}

// Average returns the mean rating, 0 when there are no reviews.
func (r *ReviewRepo) Average(businessID int64) (float64, error) {
	var avg float64
	err := r.db.Get(&avg, `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE business_id = ?`, businessID)
	return avg, err
}
