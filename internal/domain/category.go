package domain

import "strings"

const CategoryOther = "Otros"

// Categories is the fixed set a business can be filed under, in display order.
var Categories = []string{
	"Gastronomía",
	"Moda y Ropa",
	"Servicios Profesionales",
	"Belleza y Cuidado Personal",
	"Hogar y Decoración",
	"Tecnología",
	"Salud y Bienestar",
	"Educación",
	CategoryOther,
}

// CanonicalCategory returns the category from the fixed set matching s
// case-insensitively.
func CanonicalCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}
