package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"petmatch_server/config"
	"petmatch_server/controllers"
	"petmatch_server/logging"
	"petmatch_server/middleware"
	"petmatch_server/routes"
	"petmatch_server/services"
	"petmatch_server/socket"
	"petmatch_server/store"
)

// backend is everything the services need from storage
type backend interface {
	services.CandidateStore
	services.JudgmentStore
	services.PreferenceStore
	services.ChannelStore
	store.Seeder
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (backend, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.BackendDynamoDB:
		client, err := store.InitializeDynamoDBClient(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return store.NewDynamoStore(client, store.Tables{
			Candidates:  cfg.CandidatesTable,
			Judgments:   cfg.JudgmentsTable,
			Preferences: cfg.PreferenceTable,
			Channels:    cfg.ChannelsTable,
		}), func() {}, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func scoringConfig(cfg config.RecommendConfig) services.ScoringConfig {
	sc := services.DefaultScoringConfig()
	sc.ExplicitWeight = cfg.ExplicitWeight
	sc.ImplicitWeight = cfg.ImplicitWeight
	sc.PopularityPerLike = cfg.PopularityPerLike
	sc.PopularityCap = cfg.PopularityCap
	sc.FallbackMin = cfg.FallbackMin
	sc.FallbackMax = cfg.FallbackMax
	sc.SpecialNeedsPenalty = cfg.SpecialNeedsCost
	sc.SpeciesPoints = cfg.SpeciesPoints
	sc.ImplicitSpecies = cfg.ImplicitSpecies
	sc.ImplicitSize = cfg.ImplicitSize
	sc.ImplicitAgeClass = cfg.ImplicitAgeClass
	sc.ImplicitSex = cfg.ImplicitSex
	sc.ImplicitCompatibility = cfg.ImplicitCompatibility
	sc.DefaultLimit = cfg.DefaultLimit
	sc.MaxLimit = cfg.MaxLimit
	return sc
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := openBackend(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open store")
	}
	defer closeDB()
	logging.Info().Str("backend", cfg.Store.Backend).Msg("store initialized")

	if cfg.Store.SeedPath != "" {
		data, err := store.LoadSeedFile(ctx, cfg.Store.SeedPath, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to load seed data")
		}
		logging.Info().Int("candidates", len(data.Candidates)).Int("preferences", len(data.Preferences)).Msg("seed data loaded")
	}

	var photos services.PhotoSigner
	if cfg.Media.Bucket != "" {
		signer, err := services.NewS3PhotoSigner(ctx, cfg.Media.Region, cfg.Media.Bucket, cfg.Media.PresignTTL)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize photo signer")
		}
		photos = signer
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	var notifier services.ChannelNotifier
	if cfg.Socket.Enabled {
		socketServer := socket.NewServer(cfg.Auth.JWTSecret)
		go func() {
			if err := socketServer.Serve(); err != nil {
				logging.Error().Err(err).Msg("socket server stopped")
			}
		}()
		defer socketServer.Close()
		notifier = socketServer
		routes.RegisterSocketRoutes(r, socketServer)
	}

	// Initialize Services
	rnd := services.NewRandomSource(cfg.Recommend.RandomSeed)
	eligibility := services.NewEligibilityService(db, db)
	matches := services.NewMatchService(db, notifier)
	interaction := services.NewInteractionService(db, db, matches)
	feed := services.NewFeedService(eligibility, rnd)
	preferences := services.NewPreferenceService(db, db, db)
	recommendations := services.NewRecommendationService(eligibility, preferences, db,
		services.NewScorer(scoringConfig(cfg.Recommend), rnd))

	// Register routes
	auth := mux.MiddlewareFunc(middleware.Auth(cfg.Auth.JWTSecret))
	routes.RegisterRoutes(r)
	routes.RegisterInteractionRoutes(r,
		controllers.NewInteractionController(feed, interaction, photos, cfg.Server.RequestTimeout), auth)
	routes.RegisterRecommendationRoutes(r,
		controllers.NewRecommendationController(recommendations, photos, cfg.Server.RequestTimeout), auth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
