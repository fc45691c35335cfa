package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"comunia/internal/domain"
)

const (
	minProductScore    = 3
	maxCategoryMatches = 5
	maxGeneralMatches  = 3
)

// CatalogSource is the read side of the catalog the engine scans.
type CatalogSource interface {
	ActiveBusinesses(ctx context.Context) ([]domain.Business, error)
	InStockProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductMatch struct {
	Product  domain.Product
	Business domain.Business
	Score    int
}

// Result holds either product matches or business matches, never both.
// Category is set when businesses were picked by category inference.
type Result struct {
	Query      string
	Products   []ProductMatch
	Businesses []domain.Business
	Category   string
}

func (r Result) Empty() bool { return len(r.Products) == 0 && len(r.Businesses) == 0 }

// Engine ranks catalog entries against free text. It keeps no state between calls.
type Engine struct {
	catalog CatalogSource
	rules   *Rules
}

func NewEngine(catalog CatalogSource, rules *Rules) *Engine {
	return &Engine{catalog: catalog, rules: rules}
}

// Search scores in-stock products of active businesses and falls back to
// category inference, then to a plain business filter.
func (e *Engine) Search(ctx context.Context, query string) (Result, error) {
	q := Normalize(query)
	res := Result{Query: q}
	if q == "" {
		return res, nil
	}

	businesses, err := e.catalog.ActiveBusinesses(ctx)
	if err != nil {
		return res, fmt.Errorf("load businesses: %w", err)
	}
	active := make(map[int64]domain.Business, len(businesses))
	for _, b := range businesses {
		if b.Active {
			active[b.ID] = b
		}
	}

	products, err := e.catalog.InStockProducts(ctx)
	if err != nil {
		return res, fmt.Errorf("load products: %w", err)
	}

	tokens := significant(q)
	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		b, ok := active[p.BusinessID]
		if !ok {
			continue
		}
		if s := scoreProduct(q, tokens, p, b); s >= minProductScore {
			res.Products = append(res.Products, ProductMatch{Product: p, Business: b, Score: s})
		}
	}
	if len(res.Products) > 0 {
		sort.SliceStable(res.Products, func(i, j int) bool {
			return res.Products[i].Score > res.Products[j].Score
		})
		return res, nil
	}

	if cat, ok := e.rules.InferCategory(q); ok {
		res.Category = cat
		want := Normalize(cat)
		for _, b := range businesses {
			if _, ok := active[b.ID]; !ok {
				continue
			}
			if strings.Contains(Normalize(b.Category), want) {
				res.Businesses = append(res.Businesses, b)
				if len(res.Businesses) == maxCategoryMatches {
					break
				}
			}
		}
		return res, nil
	}

	if len(tokens) == 0 {
		return res, nil
	}
	for _, b := range businesses {
		if _, ok := active[b.ID]; !ok {
			continue
		}
		fields := Normalize(b.Name) + " " + Normalize(b.Description) + " " + Normalize(b.Category)
		if containsAny(fields, tokens) {
			res.Businesses = append(res.Businesses, b)
			if len(res.Businesses) == maxGeneralMatches {
				break
			}
		}
	}
	return res, nil
}

func scoreProduct(q string, tokens []string, p domain.Product, b domain.Business) int {
	name := Normalize(p.Name)
	desc := Normalize(p.Description)

	score := 0
	switch {
	case strings.Contains(name, q):
		score += 10
	case len(tokens) > 0 && containsAll(name, tokens):
		score += 8
	case containsAny(name, tokens):
		score += 5
	}
	switch {
	case desc == "":
	case strings.Contains(desc, q):
		score += 3
	case containsAny(desc, tokens):
		score += 2
	}
	if strings.Contains(Normalize(b.Name), q) {
		score += 2
	}
	return score
}

func containsAll(s string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
