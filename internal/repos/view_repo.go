package repos

import "github.com/jmoiron/sqlx"

type ViewRepo struct{ db *sqlx.DB }

func NewViewRepo(db *sqlx.DB) *ViewRepo { return &ViewRepo{db: db} }

// Record counts one profile visit by a logged-in user.
func (r *ViewRepo) Record(userID, businessID int64) error {
	_, err := r.db.Exec(`
	  INSERT INTO business_views(user_id, business_id, views, last_viewed_at)
	  VALUES(?, ?, 1, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, business_id)
	  DO UPDATE SET views = views + 1, last_viewed_at = CURRENT_TIMESTAMP
	`, userID, businessID)
	return err
}

// Total returns how many views a business has across all users.
func (r *ViewRepo) Total(businessID int64) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(SUM(views), 0) FROM business_views WHERE business_id = ?`, businessID)
	return n, err
}
