package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"comunia/internal/domain"
	"comunia/internal/repos"
)

// AllCategories is the filter value meaning "no category filter".
const AllCategories = "Todas las categorías"

type DirectoryService struct {
	Businesses *repos.BusinessRepo
	Products   *repos.ProductRepo
	Reviews    *repos.ReviewRepo
	Views      *repos.ViewRepo
	Users      *repos.UserRepo
}

func NewDirectoryService(b *repos.BusinessRepo, p *repos.ProductRepo, r *repos.ReviewRepo, v *repos.ViewRepo, u *repos.UserRepo) *DirectoryService {
	return &DirectoryService{Businesses: b, Products: p, Reviews: r, Views: v, Users: u}
}

// List returns active businesses filtered by a free-text query and a category.
func (s *DirectoryService) List(q, category string) ([]domain.Business, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	category = strings.TrimSpace(category)
	if category == AllCategories {
		category = ""
	}
	if category != "" {
		c, ok := domain.CanonicalCategory(category)
		if !ok {
			return nil, nil
		}
		category = c
	}
	return s.Businesses.List(q, category)
}

type RegisterInput struct {
	Name        string
	Description string
	Logo        string
	Location    string
	Category    string
	Phone       string
	Email       string
	WhatsApp    string
}

// Register creates a business. A logged-in user without a business becomes its owner.
func (s *DirectoryService) Register(owner *domain.User, in RegisterInput) (int64, error) {
	b := domain.Business{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Logo:        strings.TrimSpace(in.Logo),
		Location:    strings.TrimSpace(in.Location),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		WhatsApp:    strings.TrimSpace(in.WhatsApp),
	}
	if b.Name == "" || b.Description == "" {
		return 0, fmt.Errorf("name and description are required: %w", ErrInvalidInput)
	}
	if b.Location == "" {
		b.Location = domain.DefaultLocation
	}
	if c, ok := domain.CanonicalCategory(in.Category); ok {
		b.Category = c
	} else {
		b.Category = domain.CategoryOther
	}

	id, err := s.Businesses.Create(b)
	if err != nil {
		return 0, err
	}
	if owner != nil && !owner.BusinessID.Valid {
		if err := s.Users.LinkBusiness(owner.ID, id); err != nil {
			return id, err
		}
		owner.BusinessID = sql.NullInt64{Int64: id, Valid: true}
	}
	return id, nil
}

type Profile struct {
	Business  domain.Business
	Products  []domain.Product
	Reviews   []domain.Review
	AvgRating float64
	Views     int
	IsOwner   bool
}

// Profile loads a business page. Inactive businesses are visible only to admins.
// A logged-in viewer's visit is counted.
func (s *DirectoryService) Profile(id int64, viewer *domain.User) (Profile, error) {
	b, err := s.Businesses.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	isAdmin := viewer != nil && viewer.Role == domain.RoleAdmin
	if !b.Active && !isAdmin {
		return Profile{}, ErrNotFound
	}

	p := Profile{Business: b, IsOwner: viewer.Owns(id)}
	if p.Products, err = s.Products.ListByBusiness(id); err != nil {
		return Profile{}, err
	}
	if p.Reviews, err = s.Reviews.ListByBusiness(id); err != nil {
		return Profile{}, err
	}
	avg, err := s.Reviews.Average(id)
	if err != nil {
		return Profile{}, err
	}
	p.AvgRating = round1(avg)

	if viewer != nil && !p.IsOwner {
		if err := s.Views.Record(viewer.ID, id); err != nil {
			return Profile{}, err
		}
	}
	if p.Views, err = s.Views.Total(id); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
