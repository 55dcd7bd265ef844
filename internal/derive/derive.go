// Package derive computes the display fields of a product view. Everything
// here is pure: same entity and same clock reading, same output.
package derive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopshelf/internal/domain"
)

const homeDiscount = 0.9

var categoryLabels = map[domain.Category]string{
	domain.CategoryElectronics: "Electronics & Gadgets",
	domain.CategoryClothing:    "Clothing & Fashion",
	domain.CategoryBooks:       "Books & Media",
	domain.CategoryHome:        "Home & Living",
}

// View builds the read projection for one product.
func View(p domain.Product, now time.Time) domain.ProductView {
	eff := EffectivePrice(p)
	img := p.ImageURL
	if p.Category == domain.CategoryHome {
		// Home listings never expose an image, whatever is stored.
		img = nil
	}
	return domain.ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		SKU:            p.SKU,
		Category:       p.Category,
		CategoryLabel:  CategoryLabel(p.Category),
		Price:          p.Price,
		EffectivePrice: eff,
		DisplayPrice:   FormatPrice(eff),
		AgeBucket:      AgeBucket(p.ReleaseDate, now),
		BrandInitials:  Initials(p.Brand),
		Availability:   Availability(p),
		ImageURL:       img,
		Stock:          p.Stock,
		ReleaseDate:    p.ReleaseDate.UTC().Format("2006-01-02"),
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func CategoryLabel(c domain.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Uncategorized"
}

// EffectivePrice is what clients see; the stored price is never mutated.
func EffectivePrice(p domain.Product) float64 {
	if p.Category == domain.CategoryHome {
		return p.Price * homeDiscount
	}
	return p.Price
}

// FormatPrice renders a USD amount with thousands separators, e.g. $1,299.00.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(whole) > 3 {
		var b strings.Builder
		lead := len(whole) % 3
		if lead > 0 {
			b.WriteString(whole[:lead])
		}
		for i := lead; i < len(whole); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(whole[i : i+3])
		}
		whole = b.String()
	}
	return "$" + whole + "." + frac
}

// AgeBucket classifies elapsed time since release by day count:
// under 30 days "New Release", under a year months, under 5 years years,
// then "Classic". Day 30 itself is already a month old.
func AgeBucket(release, now time.Time) string {
	days := int(now.Sub(release).Hours() / 24)
	switch {
	case days < 30:
		return "New Release"
	case days < 365:
		months := days / 30
		if months == 1 {
			return "1 month old"
		}
		return fmt.Sprintf("%d months old", months)
	case days < 1825:
		years := days / 365
		if years == 1 {
			return "1 year old"
		}
		return fmt.Sprintf("%d years old", years)
	default:
		return "Classic"
	}
}

// Initials takes the first letter of the first and last brand words,
// splitting on space, hyphen and underscore. A blank brand yields "?".
func Initials(brand string) string {
	words := strings.FieldsFunc(brand, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	switch len(words) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(words[0][:1])
	default:
		return strings.ToUpper(words[0][:1]) + strings.ToUpper(words[len(words)-1][:1])
	}
}

// Availability maps the stock position to the shop label.
func Availability(p domain.Product) string {
	switch {
	case p.NotAvailable:
		return "Out of Stock"
	case p.Stock == 0:
		return "Unavailable"
	case p.Stock == 1:
		return "Last Item"
	case p.Stock <= 5:
		return "Limited Stock"
	default:
		return "In Stock"
	}
}
