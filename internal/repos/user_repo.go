package repos

import (
	"errors"
	"strings"

	"comunia/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrEmailTaken is returned by Create when the address is already registered.
var ErrEmailTaken = errors.New("email already registered")

const userCols = `id,email,password_hash,role,business_id,active`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(email, hash, role string) (*domain.User, error) {
	res, err := r.DB.Exec(`INSERT INTO users(email,password_hash,role) VALUES(?,?,?)`, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.ByID(id)
}

// LinkBusiness records the user as owner of a business they registered.
func (r *UserRepo) LinkBusiness(userID, businessID int64) error {
	_, err := r.DB.Exec(`UPDATE users SET business_id=? WHERE id=?`, businessID, userID)
	return err
}

func (r *UserRepo) SetActive(id int64, active bool) error {
	res, err := r.DB.Exec(`UPDATE users SET active=? WHERE id=? AND role<>'ADMIN'`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("user not found")
	}
	return nil
}

// List returns regular (non-admin) accounts for the admin screen.
func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE role<>'ADMIN' ORDER BY id`)
	return out, err
}

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen) 
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

// SessionUser resolves a session to its user; deactivated accounts do not resolve.
func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.password_hash,u.role,u.business_id,u.active
      FROM sessions s 
      JOIN users u ON u.id=s.user_id
      WHERE s.id=? AND u.active=1`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DropSessions signs a user out everywhere.
func (r *UserRepo) DropSessions(userID int64) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE user_id=?`, userID)
	return err
}
