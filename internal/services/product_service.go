package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"shopshelf/internal/cache"
	"shopshelf/internal/derive"
	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
	"shopshelf/internal/rules"
)

const (
	productListKey = "products:all"
	listTTL        = 5 * time.Minute
)

// ProductService owns the create flow: validate, check uniqueness, apply
// business rules, persist, invalidate the list cache, derive the response.
// Exactly one store write and at most one invalidation per success; zero
// writes on any rejection.
type ProductService struct {
	Repo  *repos.ProductRepo
	Cache cache.Cache
	Rules *rules.Engine
	Obs   applog.Observer
	Now   func() time.Time
}

func NewProductService(repo *repos.ProductRepo, c cache.Cache, engine *rules.Engine, obs applog.Observer) *ProductService {
	return &ProductService{Repo: repo, Cache: c, Rules: engine, Obs: obs, Now: time.Now}
}

func (s *ProductService) Create(ctx context.Context, cand domain.Candidate) (domain.ProductView, error) {
	now := s.Now().UTC()

	s.Obs.Event("product.validation.start", map[string]any{"sku": cand.SKU})
	if vl := s.Rules.Validate(cand, now); !vl.Empty() {
		s.Obs.Event("product.validation.fail", map[string]any{"sku": cand.SKU, "violations": len(vl)})
		return domain.ProductView{}, &domain.ValidationError{Violations: vl}
	}

	if err := s.Rules.CheckUnique(cand); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			s.Obs.Event("product.duplicate", map[string]any{"sku": cand.SKU})
		}
		return domain.ProductView{}, err
	}

	if err := s.Rules.CheckBusiness(cand, now); err != nil {
		var bre *domain.BusinessRuleError
		if errors.As(err, &bre) {
			// Reasons stay on this side channel; the caller sees a generic message.
			s.Obs.Event("product.rules.business.fail", map[string]any{"sku": cand.SKU, "reasons": bre.Reasons})
		}
		return domain.ProductView{}, err
	}

	cat, _ := domain.ParseCategory(cand.Category)
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        cand.Name,
		Brand:       cand.Brand,
		SKU:         cand.SKU,
		Category:    cat,
		Price:       cand.Price,
		Stock:       cand.Stock,
		ReleaseDate: cand.ReleaseDate,
		ImageURL:    cand.ImageURL,
		CreatedAt:   now,
	}
	if err := s.Repo.Insert(p); err != nil {
		s.Obs.Event("product.db.insert.fail", map[string]any{"sku": cand.SKU, "err": err.Error()})
		return domain.ProductView{}, err
	}
	s.Obs.Event("product.db.insert", map[string]any{"id": p.ID})

	s.invalidateList(ctx)

	view := derive.View(p, now)
	s.Obs.Event("product.create.ok", map[string]any{"id": p.ID, "category": string(p.Category)})
	return view, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.ProductView, error) {
	p, err := s.Repo.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ProductView{}, domain.ErrNotFound
		}
		return domain.ProductView{}, err
	}
	return derive.View(p, s.Now().UTC()), nil
}

// List serves the cached entity collection; views are derived fresh on
// every call so display fields always reflect the current clock.
func (s *ProductService) List(ctx context.Context) ([]domain.ProductView, error) {
	var products []domain.Product
	if err := s.Cache.Get(ctx, productListKey, &products); err != nil {
		if err != cache.ErrMiss {
			s.Obs.Event("product.cache.get.fail", map[string]any{"err": err.Error()})
		}
		var dberr error
		products, dberr = s.Repo.All()
		if dberr != nil {
			return nil, dberr
		}
		if cerr := s.Cache.Set(ctx, productListKey, products, listTTL); cerr != nil {
			s.Obs.Event("product.cache.set.fail", map[string]any{"err": cerr.Error()})
		}
	}

	now := s.Now().UTC()
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, derive.View(p, now))
	}
	return views, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductView, error) {
	p, err := s.Repo.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ProductView{}, domain.ErrNotFound
		}
		return domain.ProductView{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.NotAvailable != nil {
		p.NotAvailable = *req.NotAvailable
	}

	if err := s.Repo.Update(p); err != nil {
		return domain.ProductView{}, err
	}
	s.invalidateList(ctx)
	return derive.View(p, s.Now().UTC()), nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

// invalidateList drops the cached collection. Best effort: a failure is
// logged and otherwise ignored, bounded by the cache's own TTL.
func (s *ProductService) invalidateList(ctx context.Context) {
	if err := s.Cache.Remove(ctx, productListKey); err != nil {
		s.Obs.Event("product.cache.invalidate.fail", map[string]any{"err": err.Error()})
		return
	}
	s.Obs.Event("product.cache.invalidate", map[string]any{"key": productListKey})
}
