package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"mediashelf/internal/config"
	"mediashelf/internal/database"
	"mediashelf/internal/handler"
	"mediashelf/internal/repository"
	"mediashelf/internal/service"
	"mediashelf/internal/tmdb"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Repositories
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	// 4. Provider client and fetch gate
	tmdbClient := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)
	gate := tmdb.NewGate(tmdb.DefaultGateLimit)
	enricher := service.NewEnricher(tmdbClient, gate)

	// 5. Services
	authService := service.NewAuthService(cfg)
	guard := service.NewOwnershipGuard(userRepo, listRepo)
	userService := service.NewUserService(db, userRepo, listRepo, authService, cfg)
	listService := service.NewListService(db, userRepo, listRepo, mediaRepo, guard, enricher)
	mediaService := service.NewMediaService(userRepo, listRepo, mediaRepo, guard, tmdbClient, enricher)
	catalogService := service.NewCatalogService(tmdbClient)

	// Avatar uploads are optional; without R2 credentials the endpoint is off.
	avatarService, err := service.NewAvatarService(context.Background(), cfg)
	if err != nil {
		log.Printf("[Server] avatar uploads disabled: %v", err)
		avatarService = nil
	}

	// 6. Handlers
	userHandler := handler.NewUserHandler(userService, avatarService)
	listHandler := handler.NewListHandler(listService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// 7. Router
	router := NewRouter(RouterConfig{
		UserHandler:    userHandler,
		ListHandler:    listHandler,
		MediaHandler:   mediaHandler,
		CatalogHandler: catalogHandler,
		JWTSecret:      cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
