package handlers

import (
	"fmt"

	"comunia/internal/ai"
	"comunia/internal/assistant"
	"comunia/internal/config"
	applog "comunia/internal/log"
	"comunia/internal/repos"
	"comunia/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	DirectoryHandler   *DirectoryHandler
	ProductHandler     *ProductHandler
	InventoryHandler   *InventoryHandler
	ReviewHandler      *ReviewHandler
	FavoriteHandler    *FavoriteHandler
	ReservationHandler *ReservationHandler
	ChatHandler        *ChatHandler
	SuggestionHandler  *SuggestionHandler
	AdminHandler       *AdminHandler

	Suggestions *services.SuggestionService
}

// NewDeps wires repos, services and handlers. gen may be nil when no
// generator is configured; memory keeps the chat assistant's per-session state.
func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, gen ai.Generator, memory assistant.ConversationStore) (*Deps, error) {
	bizRepo := repos.NewBusinessRepo(db)
	prodRepo := repos.NewProductRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	viewRepo := repos.NewViewRepo(db)
	favRepo := repos.NewFavoriteRepo(db)
	resvRepo := repos.NewReservationRepo(db)

	rules, err := assistant.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("assistant rules: %w", err)
	}
	engine := assistant.NewEngine(repos.NewCatalogRepo(db), rules)
	router := assistant.NewRouter(engine, rules, gen, memory, cfg.AITimeout, applog.L())

	suggestSvc, err := services.NewSuggestionService(bizRepo, gen, cfg.SuggestionsTTL, cfg.AITimeout, applog.L())
	if err != nil {
		return nil, err
	}

	dirSvc := services.NewDirectoryService(bizRepo, prodRepo, reviewRepo, viewRepo, auth.Users)
	prodSvc := services.NewProductService(bizRepo, prodRepo)
	invSvc := services.NewInventoryService(prodRepo)
	reviewSvc := services.NewReviewService(bizRepo, reviewRepo)
	favSvc := services.NewFavoriteService(favRepo, bizRepo)
	resvSvc := services.NewReservationService(prodRepo, bizRepo, resvRepo)

	return &Deps{
		DirectoryHandler:   &DirectoryHandler{Directory: dirSvc, Favorites: favSvc},
		ProductHandler:     &ProductHandler{Products: prodSvc},
		InventoryHandler:   &InventoryHandler{Inv: invSvc},
		ReviewHandler:      &ReviewHandler{Reviews: reviewSvc},
		FavoriteHandler:    &FavoriteHandler{Favorites: favSvc},
		ReservationHandler: &ReservationHandler{Reservations: resvSvc},
		ChatHandler:        &ChatHandler{Router: router},
		SuggestionHandler:  &SuggestionHandler{Suggestions: suggestSvc},
		AdminHandler:       &AdminHandler{Businesses: bizRepo, Users: auth.Users, Suggestions: suggestSvc},
		Suggestions:        suggestSvc,
	}, nil
}
