package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"comunia/internal/domain"
)

const businessCols = `
    id, name, description, logo, location, category, phone, email, whatsapp, active, created_at`

type BusinessRepo struct{ db *sqlx.DB }

func NewBusinessRepo(db *sqlx.DB) *BusinessRepo { return &BusinessRepo{db: db} }

// List returns active businesses, newest first. q matches name or description,
// category must match exactly; both are optional.
func (r *BusinessRepo) List(q, category string) ([]domain.Business, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	var out []domain.Business
	err := r.db.Select(&out, `SELECT`+businessCols+` FROM businesses WHERE `+where+` ORDER BY id DESC`, args...)
	return out, err
}

// ListAll includes inactive businesses (admin screens).
func (r *BusinessRepo) ListAll() ([]domain.Business, error) {
	var out []domain.Business
	err := r.db.Select(&out, `SELECT`+businessCols+` FROM businesses ORDER BY name`)
	return out, err
}

func (r *BusinessRepo) Get(id int64) (domain.Business, error) {
	var b domain.Business
	err := r.db.Get(&b, `SELECT`+businessCols+` FROM businesses WHERE id = ?`, id)
	return b, err
}

func (r *BusinessRepo) Create(b domain.Business) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO businesses(name, description, logo, location, category, phone, email, whatsapp)
	  VALUES(?,?,?,?,?,?,?,?)
	`, b.Name, b.Description, b.Logo, b.Location, b.Category, b.Phone, b.Email, b.WhatsApp)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SetActive soft-deletes or reactivates a business.
func (r *BusinessRepo) SetActive(id int64, active bool) error {
	res, err := r.db.Exec(`UPDATE businesses SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("business %d not found", id)
	}
	return nil
}
