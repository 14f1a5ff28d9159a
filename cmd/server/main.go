package main

import (
	"fmt"
	"log"

	"studylink/internal/auth"
	"studylink/internal/bytesource"
	"studylink/internal/config"
	"studylink/internal/handler"
	"studylink/internal/port"
	"studylink/internal/repository/postgres"
	"studylink/internal/router"
	"studylink/internal/service"
	badgerstore "studylink/internal/storage/badger"
	memorystore "studylink/internal/storage/memory"
	redisstore "studylink/internal/storage/redis"
	s3storage "studylink/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	resourceRepo := postgres.NewResourceRepo(db)
	newsRepo := postgres.NewNewsRepo(db)
	groupRepo := postgres.NewGroupRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	kvStore, closeKV, err := newKVStore(&cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize %s cache store: %w", cfg.Cache.Backend, err)
	}
	defer func() { _ = closeKV() }()

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	cacheSvc := service.NewCacheService(kvStore, &cfg.Cache)
	uploadSvc := service.NewUploadService(s3Client, &auth.ContextProvider{}, bytesource.Default(), &cfg.Upload)
	resourceSvc := service.NewResourceService(uploadSvc, s3Client, resourceRepo)
	newsSvc := service.NewNewsService(newsRepo, cacheSvc)
	groupSvc := service.NewGroupService(groupRepo, cacheSvc)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	resourceH := handler.NewResourceHandler(resourceSvc, &cfg.Upload)
	newsH := handler.NewNewsHandler(newsSvc)
	groupH := handler.NewGroupHandler(groupSvc)
	thumbH := handler.NewThumbnailHandler(resourceSvc)
	healthH := handler.NewHealthHandler(db, s3Client)

	// Setup router
	r := router.Setup(authSvc, authH, resourceH, newsH, groupH, thumbH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newKVStore(cfg *config.CacheConfig) (port.KeyValueStore, func() error, error) {
	switch cfg.Backend {
	case "redis":
		return redisstore.NewKVStore(cfg)
	case "memory":
		return memorystore.NewKVStore(), func() error { return nil }, nil
	default:
		return badgerstore.NewKVStore(cfg.BadgerDir)
	}
}
