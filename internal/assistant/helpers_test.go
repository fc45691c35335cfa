package assistant

import (
	"context"
	"sync"

	"comunia/internal/domain"
)

type fakeCatalog struct {
	businesses []domain.Business
	products   []domain.Product
	err        error
}

func (f *fakeCatalog) ActiveBusinesses(context.Context) ([]domain.Business, error) {
	return f.businesses, f.err
}

func (f *fakeCatalog) InStockProducts(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

type recordingGen struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	block   bool
}

func (g *recordingGen) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.reply, g.err
}

func (g *recordingGen) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func biz(id int64, name, category, desc string) domain.Business {
	return domain.Business{ID: id, Name: name, Category: category, Description: desc, Active: true}
}

func prod(id, businessID int64, name, desc string, price float64, stock int) domain.Product {
	return domain.Product{ID: id, BusinessID: businessID, Name: name, Description: desc, Price: price, Stock: stock}
}

// demoCatalog mirrors a slice of the seeded directory.
func demoCatalog() *fakeCatalog {
	return &fakeCatalog{
		businesses: []domain.Business{
			biz(1, "Pizza Italia", "Gastronomía", "Auténticas pizzas italianas hechas en horno de leña."),
			biz(2, "Tech Store", "Tecnología", "Laptops, periféricos y audio con garantía."),
			biz(3, "Abogados Santa Cruz", "Servicios Profesionales", "Derecho civil, familiar, laboral y penal."),
			biz(4, "Café Aroma", "Gastronomía", "Café de altura boliviano y repostería."),
		},
		products: []domain.Product{
			prod(10, 1, "Pizza Margarita", "La clásica pizza Margarita con salsa de tomate fresca, mozzarella y albahaca.", 45.00, 12),
			prod(11, 1, "Pizza Pepperoni", "Cargada con pepperoni y queso mozzarella.", 52.00, 3),
			prod(20, 2, "Laptop HP Core i5", "Potente laptop con procesador Core i5.", 4500.00, 6),
			prod(21, 2, "Auriculares Bluetooth", "Auriculares inalámbricos.", 220.00, 0),
			prod(40, 4, "Cappuccino", "Espresso y leche vaporizada.", 15.00, 40),
		},
	}
}

func mustRules() *Rules {
	r, err := DefaultRules()
	if err != nil {
		panic(err)
	}
	return r
}
