package derive_test

import (
	"testing"
	"time"

	"shopshelf/internal/derive"
	"shopshelf/internal/domain"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestInitials(t *testing.T) {
	cases := []struct{ brand, want string }{
		{"Tech Innovations Inc", "TI"},
		{"Sony", "S"},
		{"", "?"},
		{"north-gate", "NG"},
		{"acme_labs", "AL"},
		{"  ", "?"},
	}
	for _, tc := range cases {
		if got := derive.Initials(tc.brand); got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.brand, got, tc.want)
		}
	}
}

func TestAgeBucketBoundaries(t *testing.T) {
	cases := []struct {
		daysAgo int
		want    string
	}{
		{0, "New Release"},
		{29, "New Release"},
		{30, "1 month old"}, // day 30 is already out of New Release
		{60, "2 months old"},
		{364, "12 months old"},
		{365, "1 year old"},
		{1824, "4 years old"},
		{1825, "Classic"},
		{4000, "Classic"},
	}
	for _, tc := range cases {
		release := now.AddDate(0, 0, -tc.daysAgo)
		if got := derive.AgeBucket(release, now); got != tc.want {
			t.Errorf("AgeBucket(-%dd) = %q, want %q", tc.daysAgo, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{9.5, "$9.50"},
		{129.99, "$129.99"},
		{1299, "$1,299.00"},
		{1234567.89, "$1,234,567.89"},
	}
	for _, tc := range cases {
		if got := derive.FormatPrice(tc.in); got != tc.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHomeCategoryDiscountAndImageSuppression(t *testing.T) {
	img := "https://cdn.test/pic.jpg"
	p := domain.Product{
		ID:          "p1",
		Name:        "Linen Blanket",
		Brand:       "Hearth and Co",
		Category:    domain.CategoryHome,
		Price:       100,
		Stock:       10,
		ReleaseDate: now.AddDate(0, 0, -10),
		ImageURL:    &img,
		CreatedAt:   now,
	}
	v := derive.View(p, now)
	if v.EffectivePrice != 90 {
		t.Errorf("effective price = %v, want 90", v.EffectivePrice)
	}
	if v.Price != 100 {
		t.Errorf("stored price must stay unreduced, got %v", v.Price)
	}
	if v.DisplayPrice != "$90.00" {
		t.Errorf("display price = %q", v.DisplayPrice)
	}
	if v.ImageURL != nil {
		t.Errorf("home listings must suppress the image, got %v", *v.ImageURL)
	}

	// Any other category passes price and image through.
	p.Category = domain.CategoryClothing
	v = derive.View(p, now)
	if v.EffectivePrice != 100 || v.ImageURL == nil {
		t.Errorf("non-home derivation altered price or image: %+v", v)
	}
}

func TestAvailabilityLabels(t *testing.T) {
	cases := []struct {
		stock        int
		notAvailable bool
		want         string
	}{
		{50, true, "Out of Stock"},
		{0, false, "Unavailable"},
		{1, false, "Last Item"},
		{2, false, "Limited Stock"},
		{5, false, "Limited Stock"},
		{6, false, "In Stock"},
	}
	for _, tc := range cases {
		p := domain.Product{Stock: tc.stock, NotAvailable: tc.notAvailable}
		if got := derive.Availability(p); got != tc.want {
			t.Errorf("Availability(stock=%d, na=%v) = %q, want %q", tc.stock, tc.notAvailable, got, tc.want)
		}
	}
}

func TestCategoryLabels(t *testing.T) {
	if got := derive.CategoryLabel(domain.CategoryBooks); got != "Books & Media" {
		t.Errorf("books label = %q", got)
	}
	if got := derive.CategoryLabel(domain.Category("VINYL")); got != "Uncategorized" {
		t.Errorf("unmapped label = %q", got)
	}
}

func TestViewIsDeterministic(t *testing.T) {
	p := domain.Product{
		ID:          "p1",
		Name:        "Canvas Jacket",
		Brand:       "Northgate",
		SKU:         "NG-JKT-204",
		Category:    domain.CategoryClothing,
		Price:       149,
		Stock:       3,
		ReleaseDate: now.AddDate(-2, 0, 0),
		CreatedAt:   now,
	}
	a := derive.View(p, now)
	b := derive.View(p, now)
	if a != b {
		t.Errorf("derivation not deterministic:\n%+v\n%+v", a, b)
	}
}
