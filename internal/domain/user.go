package domain

import "database/sql"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID         int64         `db:"id"`
	Email      string        `db:"email"`
	Hash       string        `db:"password_hash"`
	Role       string        `db:"role"`
	BusinessID sql.NullInt64 `db:"business_id"`
	Active     bool          `db:"active"`
}

// Owns reports whether the user is the registered owner of the business.
func (u *User) Owns(businessID int64) bool {
	return u != nil && u.BusinessID.Valid && u.BusinessID.Int64 == businessID
}
