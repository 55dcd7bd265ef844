package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopshelf/internal/cache"
	"shopshelf/internal/config"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
	"shopshelf/internal/rules"
	"shopshelf/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	BookHandler    *BookHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store cache.Cache) *Deps {
	prodRepo := repos.NewProductRepo(db)
	bookRepo := repos.NewBookRepo(db)

	engine := rules.NewEngine(cfg.Rules, prodRepo)
	obs := applog.StdObserver{}

	prodSvc := services.NewProductService(prodRepo, store, engine, obs)
	bookSvc := services.NewBookService(bookRepo, store, obs)

	return &Deps{
		ProductHandler: &ProductHandler{Products: prodSvc},
		BookHandler:    &BookHandler{Books: bookSvc},
	}
}
