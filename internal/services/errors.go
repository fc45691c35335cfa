package services

import (
	"errors"

	"comunia/internal/repos"
)

var (
	ErrBadCreds          = errors.New("invalid email or password")
	ErrEmailTaken        = repos.ErrEmailTaken
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNotFound          = errors.New("not found")
	ErrNotOwner          = errors.New("not the owner of this business")
	ErrInactive          = errors.New("business is not active")
	ErrInsufficientStock = repos.ErrInsufficientStock
)
