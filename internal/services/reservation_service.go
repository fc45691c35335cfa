package services

import (
	"database/sql"
	"errors"
	"fmt"

	"comunia/internal/domain"
	"comunia/internal/repos"

	"github.com/google/uuid"
)

const ReservationReserved = "RESERVED"

// MaxReservationQty caps a single reservation.
const MaxReservationQty = 50

type ReservationService struct {
	Products     *repos.ProductRepo
	Businesses   *repos.BusinessRepo
	Reservations *repos.ReservationRepo
}

func NewReservationService(p *repos.ProductRepo, b *repos.BusinessRepo, r *repos.ReservationRepo) *ReservationService {
	return &ReservationService{Products: p, Businesses: b, Reservations: r}
}

// Reserve holds qty units of a product for a user. Stock is decremented in the
// same transaction and never drops below zero.
func (s *ReservationService) Reserve(userID, productID int64, qty int) (domain.Reservation, error) {
	if qty < 1 || qty > MaxReservationQty {
		return domain.Reservation{}, fmt.Errorf("qty must be 1..%d: %w", MaxReservationQty, ErrInvalidInput)
	}
	p, err := s.Products.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, ErrNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	b, err := s.Businesses.Get(p.BusinessID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !b.Active {
		return domain.Reservation{}, ErrInactive
	}

	tx, err := s.Reservations.Begin()
	if err != nil {
		return domain.Reservation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Products.Decrement(tx, productID, qty); err != nil {
		return domain.Reservation{}, err
	}
	r := domain.Reservation{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Qty:       qty,
		Status:    ReservationReserved,
	}
	if err := s.Reservations.Create(tx, r); err != nil {
		return domain.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (s *ReservationService) List(userID int64) ([]repos.ReservationRow, error) {
	return s.Reservations.ListByUser(userID)
}
