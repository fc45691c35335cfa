package domain

const DefaultLocation = "Santa Cruz, Bolivia"

type Business struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Logo        string `db:"logo" json:"logo,omitempty"`
	Location    string `db:"location" json:"location"`
	Category    string `db:"category" json:"category"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	Email       string `db:"email" json:"email,omitempty"`
	WhatsApp    string `db:"whatsapp" json:"whatsapp,omitempty"`
	Active      bool   `db:"active" json:"active"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID          int64   `db:"id" json:"id"`
	BusinessID  int64   `db:"business_id" json:"business_id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description,omitempty"`
	Price       float64 `db:"price" json:"price"`
	Stock       int     `db:"stock" json:"stock"`
	ImageURL    string  `db:"image_url" json:"image_url,omitempty"`
}

type Review struct {
	ID         int64  `db:"id" json:"id"`
	BusinessID int64  `db:"business_id" json:"-"`
	Author     string `db:"author" json:"author"`
	Rating     int    `db:"rating" json:"rating"`
	Comment    string `db:"comment" json:"comment"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Reservation struct {
	ID        string `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Qty       int    `db:"qty" json:"qty"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Availability describes stock the way customers see it.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

const (
	StockIn  = "IN_STOCK"
	StockLow = "LOW_STOCK"
	StockOut = "OUT_OF_STOCK"
)

// LowStockThreshold is the count below which stock is reported as low.
const LowStockThreshold = 5

func StockStatus(qty int) Availability {
	switch {
	case qty >= LowStockThreshold:
		return Availability{Status: StockIn, Qty: qty}
	case qty > 0:
		return Availability{Status: StockLow, Qty: qty}
	default:
		return Availability{Status: StockOut, Qty: 0}
	}
}
