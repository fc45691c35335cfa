package repos

import (
	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) Add(userID, businessID int64) error {
	_, err := r.db.Exec(`
	  INSERT INTO favorites(user_id, business_id)
	  VALUES(?, ?)
	  ON CONFLICT(user_id, business_id) DO NOTHING
	`, userID, businessID)
	return err
}

func (r *FavoriteRepo) Remove(userID, businessID int64) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id=? AND business_id=?`, userID, businessID)
	return err
}

func (r *FavoriteRepo) Has(userID, businessID int64) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM favorites WHERE user_id=? AND business_id=?`, userID, businessID)
	return n > 0, err
}

// List returns the user's favorite businesses that are still active.
func (r *FavoriteRepo) List(userID int64) ([]domain.Business, error) {
	var out []domain.Business
	err := r.db.Select(&out, `
	  SELECT b.id, b.name, b.description, b.logo, b.location, b.category,
	         b.phone, b.email, b.whatsapp, b.active, b.created_at
	  FROM favorites f
	  JOIN businesses b ON b.id = f.business_id
	  WHERE f.user_id = ? AND b.active = 1
	  ORDER BY b.name
	`, userID)
	return out, err
}
