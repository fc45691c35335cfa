package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"comunia/internal/domain"
)

const (
	maxShownProducts  = 5
	productDescLimit  = 100
	businessDescLimit = 120
)

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:limit-3])) + "..."
}

func availabilityPhrase(stock int) string {
	a := domain.StockStatus(stock)
	switch a.Status {
	case domain.StockIn:
		return "Disponible"
	case domain.StockLow:
		return fmt.Sprintf("¡Quedan pocas unidades! (%d)", a.Qty)
	default:
		return "Agotado"
	}
}

func profileLink(id int64) string { return fmt.Sprintf("/profile/%d", id) }

func formatProducts(phrase string, matches []ProductMatch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Encontré estos productos para \"%s\":\n", phrase)
	for i, m := range matches {
		if i == maxShownProducts {
			break
		}
		p := m.Product
		fmt.Fprintf(&sb, "\n**%s**\n", p.Name)
		fmt.Fprintf(&sb, "Precio: Bs %.2f\n", p.Price)
		fmt.Fprintf(&sb, "Disponibilidad: %s\n", availabilityPhrase(p.Stock))
		if d := truncate(p.Description, productDescLimit); d != "" {
			fmt.Fprintf(&sb, "%s\n", d)
		}
		fmt.Fprintf(&sb, "Vendido por: %s\n", m.Business.Name)
		fmt.Fprintf(&sb, "[Ver negocio](%s)\n", profileLink(m.Business.ID))
	}
	if n := len(matches) - maxShownProducts; n > 0 {
		fmt.Fprintf(&sb, "\nY %d resultado(s) más. Prueba una búsqueda más específica.\n", n)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatBusinesses(phrase, category string, bs []domain.Business) string {
	var sb strings.Builder
	if category != "" {
		fmt.Fprintf(&sb, "No encontré productos para \"%s\", pero estos negocios de %s pueden ayudarte:\n", phrase, category)
	} else {
		fmt.Fprintf(&sb, "Estos negocios coinciden con \"%s\":\n", phrase)
	}
	for _, b := range bs {
		fmt.Fprintf(&sb, "\n**%s** (%s)\n", b.Name, b.Category)
		if d := truncate(b.Description, businessDescLimit); d != "" {
			fmt.Fprintf(&sb, "%s\n", d)
		}
		fmt.Fprintf(&sb, "[Ver perfil](%s)\n", profileLink(b.ID))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNoResults(phrase string, retry bool) string {
	if retry {
		return fmt.Sprintf("Sigo sin encontrar resultados para \"%s\". "+
			"Prueba con otra palabra o con una categoría, por ejemplo \"tecnología\" o \"gastronomía\".", phrase)
	}
	return fmt.Sprintf("No encontré resultados para \"%s\". "+
		"Intenta reformular tu búsqueda con el nombre de un producto o servicio. "+
		"Si quieres que lo intente de nuevo, responde \"sí\".", phrase)
}

// formatResult renders a search result or the no-results template.
func formatResult(res Result, retry bool) string {
	switch {
	case len(res.Products) > 0:
		return formatProducts(res.Query, res.Products)
	case len(res.Businesses) > 0:
		return formatBusinesses(res.Query, res.Category, res.Businesses)
	default:
		return formatNoResults(res.Query, retry)
	}
}
