package repos

import (
	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

type ReservationRepo struct{ db *sqlx.DB }

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

func (r *ReservationRepo) Create(tx *sqlx.Tx, res domain.Reservation) error {
	_, err := tx.Exec(`
	  INSERT INTO reservations(id, product_id, user_id, qty, status)
	  VALUES(?,?,?,?,?)
	`, res.ID, res.ProductID, res.UserID, res.Qty, res.Status)
	return err
}

// ReservationRow joins product and business names for listings.
type ReservationRow struct {
	ID           string  `db:"id" json:"id"`
	ProductName  string  `db:"product_name" json:"product_name"`
	BusinessName string  `db:"business_name" json:"business_name"`
	Qty          int     `db:"qty" json:"qty"`
	Price        float64 `db:"price" json:"price"`
	Status       string  `db:"status" json:"status"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

func (r *ReservationRepo) ListByUser(userID int64) ([]ReservationRow, error) {
	var out []ReservationRow
	err := r.db.Select(&out, `
	  SELECT rv.id, p.name AS product_name, b.name AS business_name,
	         rv.qty, p.price, rv.status, rv.created_at
	  FROM reservations rv
	  JOIN products p ON p.id = rv.product_id
	  JOIN businesses b ON b.id = p.business_id
	  WHERE rv.user_id = ?
	  ORDER BY rv.created_at DESC
	`, userID)
	return out, err
}
