package repos

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenDB opens the SQLite database, applies migrations and optionally seeds
// the demo directory.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: writes serialize and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		return nil, err
	}
	if !seed {
		return db, nil
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	drv, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	// m.Close would close the shared *sql.DB; only the source is released.
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

type seedProduct struct {
	Name, Description string
	Price             float64
	Stock             int
}

type seedBusiness struct {
	Name, Description, Category, Phone, WhatsApp, Email string
	Products                                            []seedProduct
}

var demoDirectory = []seedBusiness{
	{
		Name:        "Pizza Italia",
		Description: "Auténticas pizzas italianas hechas en horno de leña. Masa artesanal e ingredientes importados.",
		Category:    "Gastronomía", Phone: "77012345", WhatsApp: "59177012345", Email: "pizzaitalia@email.com",
		Products: []seedProduct{
			{"Pizza Margarita", "La clásica pizza Margarita con salsa de tomate fresca, mozzarella y albahaca.", 45.00, 12},
			{"Pizza Pepperoni", "Cargada con pepperoni de alta calidad y queso mozzarella derretido.", 52.00, 8},
			{"Lasaña Bolognesa", "Capas de pasta fresca, salsa boloñesa y bechamel, horneada con parmesano.", 38.00, 0},
		},
	},
	{
		Name:        "Café Aroma",
		Description: "Cafetería especializada en café de altura boliviano. Repostería artesanal y ambiente acogedor.",
		Category:    "Gastronomía", Phone: "77012346", WhatsApp: "59177012346", Email: "cafearoma@email.com",
		Products: []seedProduct{
			{"Cappuccino", "Espresso, leche vaporizada y una cremosa capa de espuma.", 15.00, 40},
			{"Torta de Chocolate", "Una rebanada húmeda y decadente de nuestra famosa torta de chocolate.", 20.00, 6},
		},
	},
	{
		Name:        "Moda Urbana",
		Description: "Ropa de moda para jóvenes y adultos. Street wear y casual elegante. Envíos a toda Bolivia.",
		Category:    "Moda y Ropa", Phone: "77012347", WhatsApp: "59177012347", Email: "modaurbana@email.com",
		Products: []seedProduct{
			{"Chaqueta Denim", "La chaqueta de jean que no puede faltar en tu armario.", 220.00, 4},
			{"Zapatillas Deportivas", "Zapatillas cómodas y con estilo, para deporte o tu look diario.", 250.00, 10},
		},
	},
	{
		Name:        "Abogados Santa Cruz",
		Description: "Estudio jurídico con experiencia en derecho civil, familiar, laboral y penal.",
		Category:    "Servicios Profesionales", Phone: "77012349", WhatsApp: "59177012349", Email: "abogadosscz@email.com",
		Products: []seedProduct{
			{"Consulta Legal", "Asesoría legal inicial para evaluar tu caso y orientarte sobre los pasos a seguir.", 150.00, 20},
			{"Divorcio Express", "Proceso de divorcio de mutuo acuerdo, gestionado de forma rápida y eficiente.", 1200.00, 5},
		},
	},
	{
		Name:        "Salón Bella",
		Description: "Salón de belleza integral: cortes, color, manicure y tratamientos faciales.",
		Category:    "Belleza y Cuidado Personal", Phone: "77012351", WhatsApp: "59177012351", Email: "salonbella@email.com",
		Products: []seedProduct{
			{"Corte de Cabello Dama", "Corte moderno y estilizado por nuestros expertos. Incluye lavado.", 50.00, 30},
			{"Tratamiento Facial", "Limpieza profunda e hidratación para revitalizar tu piel.", 120.00, 15},
		},
	},
	{
		Name:        "Decora Home",
		Description: "Muebles y decoración para tu hogar con diseño moderno y acabados de primera.",
		Category:    "Hogar y Decoración", Phone: "77012353", WhatsApp: "59177012353", Email: "decorahome@email.com",
		Products: []seedProduct{
			{"Lámpara Moderna", "Lámpara de pie con diseño contemporáneo y luz cálida.", 350.00, 3},
			{"Mesa de Centro", "Mesa de centro minimalista en madera maciza.", 800.00, 2},
		},
	},
	{
		Name:        "Tech Store",
		Description: "Tecnología y accesorios de computación con garantía. Laptops, periféricos y audio.",
		Category:    "Tecnología", Phone: "77012355", WhatsApp: "59177012355", Email: "techstore@email.com",
		Products: []seedProduct{
			{"Laptop HP Core i5", "Potente laptop con procesador Core i5, 8GB de RAM y 256GB SSD.", 4500.00, 6},
			{"Mouse Gamer RGB", "Mouse ergonómico para gaming con iluminación RGB personalizable.", 180.00, 25},
			{"Auriculares Bluetooth", "Auriculares inalámbricos con cancelación de ruido.", 220.00, 0},
		},
	},
	{
		Name:        "Gym Power",
		Description: "Gimnasio completo con máquinas modernas, clases grupales y entrenadores certificados.",
		Category:    "Salud y Bienestar", Phone: "77012357", WhatsApp: "59177012357", Email: "gympower@email.com",
		Products: []seedProduct{
			{"Membresía Mensual", "Acceso ilimitado a todas las áreas del gimnasio y clases grupales.", 200.00, 100},
			{"Plan Nutricional", "Plan de alimentación personalizado creado por nuestro nutricionista.", 150.00, 10},
		},
	},
	{
		Name:        "Inglés Fast",
		Description: "Instituto de inglés con método conversacional. Grupos reducidos y horarios flexibles.",
		Category:    "Educación", Phone: "77012359", WhatsApp: "59177012359", Email: "inglesfast@email.com",
		Products: []seedProduct{
			{"Curso Básico (3 meses)", "Módulo trimestral para principiantes.", 600.00, 15},
			{"Clases Particulares (hora)", "Clases personalizadas uno a uno.", 80.00, 40},
		},
	},
	{
		Name:        "Foto Studio",
		Description: "Fotografía profesional para eventos, retratos y productos.",
		Category:    "Otros", Phone: "77012361", WhatsApp: "59177012361", Email: "fotostudio@email.com",
		Products: []seedProduct{
			{"Sesión Fotográfica Personal", "Sesión de 1 hora en estudio o exteriores. Incluye 15 fotos editadas.", 350.00, 8},
			{"Fotos de Producto", "Fotografía profesional de tus productos para catálogos y redes sociales.", 200.00, 12},
		},
	},
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM businesses`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo businesses/products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, b := range demoDirectory {
		res, err := tx.Exec(`
			INSERT INTO businesses(name, description, category, phone, whatsapp, email)
			VALUES(?,?,?,?,?,?)`, b.Name, b.Description, b.Category, b.Phone, b.WhatsApp, b.Email)
		if err != nil {
			return err
		}
		bid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, p := range b.Products {
			if _, err := tx.Exec(`
				INSERT INTO products(business_id, name, description, price, stock)
				VALUES(?,?,?,?,?)`, bid, p.Name, p.Description, p.Price, p.Stock); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// seedUsers ensures the demo admin and the Pizza Italia owner exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		Email, Role, Hash, Business string
	}
	mk := func(email, role, business, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{Email: email, Role: role, Hash: string(h), Business: business}, err
	}

	admin, err := mk("admin@comunia.test", "ADMIN", "", "Passw0rd!")
	if err != nil {
		return err
	}
	owner, err := mk("pizzaitalia@email.com", "USER", "Pizza Italia", "Passw0rd!")
	if err != nil {
		return err
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, x := range []u{admin, owner} {
		if _, err := tx.Exec(`
			INSERT INTO users(email, password_hash, role, business_id)
			VALUES(?, ?, ?, (SELECT id FROM businesses WHERE name = ? LIMIT 1))
			ON CONFLICT(email) DO NOTHING
		`, x.Email, x.Hash, x.Role, x.Business); err != nil {
			return err
		}
	}
	return tx.Commit()
}
