package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

// ErrInsufficientStock is returned by Decrement when fewer units remain than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

const productCols = `id, business_id, name, description, price, stock, image_url`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) ListByBusiness(businessID int64) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE business_id = ? ORDER BY id`, businessID)
	return out, err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(business_id, name, description, price, stock, image_url)
	  VALUES(?,?,?,?,?,?)
	`, p.BusinessID, p.Name, p.Description, p.Price, p.Stock, p.ImageURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Decrement atomically subtracts "by" units if enough stock exists.
func (r *ProductRepo) Decrement(tx *sqlx.Tx, productID int64, by int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// SetStock overwrites the stock count; negative values are rejected by the schema.
func (r *ProductRepo) SetStock(productID int64, qty int) error {
	_, err := r.db.Exec(`UPDATE products SET stock = ? WHERE id = ?`, qty, productID)
	return err
}
