// Package rules evaluates a product candidate against the tiered rule set:
// field shape, store-backed uniqueness, per-category conditions, cross-field
// constraints and aggregate business checks. The violation tiers are merged
// so a caller sees every failure at once; uniqueness and business checks
// surface as distinct error kinds.
package rules

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"shopshelf/internal/config"
	"shopshelf/internal/domain"
)

var (
	reSKU   = regexp.MustCompile(`^[A-Za-z0-9-]{5,20}$`)
	reBrand = regexp.MustCompile(`^[A-Za-z0-9 .'\-]+$`)
)

const (
	priceMax            = 10000.0
	stockMax            = 100000
	nameMax             = 200
	electronicsMinPrice = 50.0
	homeMaxPrice        = 200.0
	highPriceThreshold  = 100.0
	highPriceStockMax   = 20
	premiumThreshold    = 500.0
	premiumStockMax     = 10
	dailyCreateCap      = 500
)

// Store is the narrow read surface the engine needs; *repos.ProductRepo
// satisfies it.
type Store interface {
	ExistsSKU(sku string) (bool, error)
	ExistsNameBrand(name, brand string) (bool, error)
	CountCreatedSince(t time.Time) (int, error)
}

type Engine struct {
	Data  config.RuleData
	Store Store
}

func NewEngine(data config.RuleData, store Store) *Engine {
	return &Engine{Data: data, Store: store}
}

// Validate runs the shape, category-conditional and cross-field tiers and
// merges all violations. No I/O happens here.
func (e *Engine) Validate(c domain.Candidate, now time.Time) domain.ViolationList {
	var vl domain.ViolationList
	e.shape(c, now, &vl)
	e.byCategory(c, now, &vl)
	e.crossField(c, &vl)
	return vl
}

func (e *Engine) shape(c domain.Candidate, now time.Time, vl *domain.ViolationList) {
	switch {
	case c.Name == "":
		vl.Add("name", "is required")
	case len(c.Name) > nameMax:
		vl.Add("name", fmt.Sprintf("must be at most %d characters", nameMax))
	default:
		if w := containsAny(c.Name, e.Data.InappropriateWords); w != "" {
			vl.Add("name", fmt.Sprintf("contains prohibited term %q", w))
		}
	}

	switch {
	case c.Brand == "":
		vl.Add("brand", "is required")
	case len(c.Brand) < 2 || len(c.Brand) > 100:
		vl.Add("brand", "must be between 2 and 100 characters")
	case !reBrand.MatchString(c.Brand):
		vl.Add("brand", "may only contain letters, digits, spaces, hyphens, apostrophes and periods")
	}

	if c.SKU == "" {
		vl.Add("sku", "is required")
	} else if !reSKU.MatchString(c.SKU) {
		vl.Add("sku", "must be 5-20 letters, digits or hyphens")
	}

	if _, ok := domain.ParseCategory(c.Category); !ok {
		vl.Add("category", "must be one of ELECTRONICS, CLOTHING, BOOKS, HOME")
	}

	if c.Price <= 0 {
		vl.Add("price", "must be greater than zero")
	} else if c.Price >= priceMax {
		vl.Add("price", fmt.Sprintf("must be below %.0f", priceMax))
	}

	if c.ReleaseDate.After(now) {
		vl.Add("releaseDate", "cannot be in the future")
	} else if c.ReleaseDate.Year() < 1900 {
		vl.Add("releaseDate", "must be in 1900 or later")
	}

	if c.Stock < 0 || c.Stock > stockMax {
		vl.Add("stock", fmt.Sprintf("must be between 0 and %d", stockMax))
	}

	if c.ImageURL != nil && *c.ImageURL != "" {
		e.checkImageURL(*c.ImageURL, vl)
	}
}

func (e *Engine) checkImageURL(raw string, vl *domain.ViolationList) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		vl.Add("imageUrl", "must be an absolute http or https URL")
		return
	}
	path := strings.ToLower(u.Path)
	for _, ext := range e.Data.ImageExtensions {
		if strings.HasSuffix(path, ext) {
			return
		}
	}
	vl.Add("imageUrl", "must point to an image file ("+strings.Join(e.Data.ImageExtensions, ", ")+")")
}

// categoryRule is one conditional check; each rule lives in exactly one
// place in the registry below, regardless of how many flows consult it.
type categoryRule func(e *Engine, c domain.Candidate, now time.Time, vl *domain.ViolationList)

var categoryRules = map[domain.Category][]categoryRule{
	domain.CategoryElectronics: {
		func(_ *Engine, c domain.Candidate, _ time.Time, vl *domain.ViolationList) {
			if c.Price < electronicsMinPrice {
				vl.Add("price", fmt.Sprintf("electronics must be priced at least %.0f", electronicsMinPrice))
			}
		},
		func(e *Engine, c domain.Candidate, _ time.Time, vl *domain.ViolationList) {
			if containsAny(c.Name, e.Data.TechnologyKeywords) == "" {
				vl.Add("name", "electronics name must mention a technology keyword")
			}
		},
		func(_ *Engine, c domain.Candidate, now time.Time, vl *domain.ViolationList) {
			if c.ReleaseDate.Before(now.AddDate(-5, 0, 0)) {
				vl.Add("releaseDate", "electronics must have been released within the last 5 years")
			}
		},
	},
	domain.CategoryHome: {
		func(_ *Engine, c domain.Candidate, _ time.Time, vl *domain.ViolationList) {
			if c.Price > homeMaxPrice {
				vl.Add("price", fmt.Sprintf("home products must be priced at most %.0f", homeMaxPrice))
			}
		},
		func(e *Engine, c domain.Candidate, _ time.Time, vl *domain.ViolationList) {
			if w := containsAny(c.Name, e.Data.HomeRestrictedWords); w != "" {
				vl.Add("name", fmt.Sprintf("home products may not mention %q", w))
			}
		},
	},
	domain.CategoryClothing: {
		func(_ *Engine, c domain.Candidate, _ time.Time, vl *domain.ViolationList) {
			if len(c.Brand) < 3 {
				vl.Add("brand", "clothing brand must be at least 3 characters")
			}
		},
	},
}

func (e *Engine) byCategory(c domain.Candidate, now time.Time, vl *domain.ViolationList) {
	cat, ok := domain.ParseCategory(c.Category)
	if !ok {
		return // already a shape violation
	}
	for _, rule := range categoryRules[cat] {
		rule(e, c, now, vl)
	}
}

func (e *Engine) crossField(c domain.Candidate, vl *domain.ViolationList) {
	if c.Price > highPriceThreshold && c.Stock > highPriceStockMax {
		vl.Add("stock", fmt.Sprintf("items priced above %.0f must keep stock at or below %d", highPriceThreshold, highPriceStockMax))
	}
}

// CheckUnique consults the store for SKU and name+brand collisions. A hit
// returns a wrapped domain.ErrDuplicate; anything else is a store failure.
func (e *Engine) CheckUnique(c domain.Candidate) error {
	dup, err := e.Store.ExistsSKU(c.SKU)
	if err != nil {
		return err
	}
	if dup {
		return domain.Duplicatef("a product with SKU %q already exists", c.SKU)
	}
	dup, err = e.Store.ExistsNameBrand(c.Name, c.Brand)
	if err != nil {
		return err
	}
	if dup {
		return domain.Duplicatef("a product named %q by %q already exists", c.Name, c.Brand)
	}
	return nil
}

// CheckBusiness runs the aggregate checks. Failures carry their reasons for
// the log side channel; the outward message stays generic.
func (e *Engine) CheckBusiness(c domain.Candidate, now time.Time) error {
	var reasons []string

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := e.Store.CountCreatedSince(midnight)
	if err != nil {
		return err
	}
	if n >= dailyCreateCap {
		reasons = append(reasons, fmt.Sprintf("daily creation cap reached (%d of %d)", n, dailyCreateCap))
	}

	if c.Price > premiumThreshold && c.Stock > premiumStockMax {
		reasons = append(reasons, fmt.Sprintf("items priced above %.0f limited to stock of %d", premiumThreshold, premiumStockMax))
	}

	if len(reasons) > 0 {
		return &domain.BusinessRuleError{Reasons: reasons}
	}
	return nil
}

// containsAny reports the first listed word found in s, case-insensitively.
func containsAny(s string, words []string) string {
	low := strings.ToLower(s)
	for _, w := range words {
		if w != "" && strings.Contains(low, strings.ToLower(w)) {
			return w
		}
	}
	return ""
}
