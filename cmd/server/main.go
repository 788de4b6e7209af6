package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chorechampions/internal/config"
	"chorechampions/internal/handlers"
	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/security"
	"chorechampions/internal/seed"
	"chorechampions/internal/service"
	"chorechampions/internal/teachback"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Open the state store (sql, redis or memory)
	store, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	repo := repository.NewStateRepository(store)
	seeded, err := repo.Load(ctx, seedFunc(cfg.SeedFile))
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	if seeded {
		log.Println("No saved state found, seeded default household")
	}

	// Initialize services
	notifier, err := service.NewNotificationService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.ParentEmail, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize notification service: %v", err)
	}
	if notifier.IsEnabled() {
		log.Printf("Redemption e-mails enabled (to: %s)", cfg.ParentEmail)
	}

	judge := teachback.NewGeminiJudge(teachback.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.JudgeTimeout,
	})
	if !judge.Configured() {
		log.Println("GEMINI_API_KEY not set, teach-back checks will fail")
	}

	learnerService := service.NewLearnerService(repo, notifier)
	catalogService := service.NewCatalogService(repo)
	teachBackService := service.NewTeachBackService(judge, learnerService, cfg.TeachBackDelay, cfg.Debug)
	authService, err := service.NewAuthService(repo, cfg.ParentPassword, cfg.SessionSecret, cfg.SessionDuration)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(20, time.Minute)
	defer limiter.Stop()

	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, learnerService)
	parentHandler := handlers.NewParentHandler(catalogService, learnerService)
	learnerHandler := handlers.NewLearnerHandler(learnerService)
	teachBackHandler := handlers.NewTeachBackHandler(teachBackService)

	// Setup routes
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, middleware, authHandler, parentHandler, learnerHandler, teachBackHandler)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.JudgeTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	// Start background jobs
	go cleanupExpiredSessions(bgCtx, authService)
	if cfg.DailyRollover {
		// Catch up on any day that passed while the server was down
		runRollover(ctx, learnerService)
		go dailyRollover(bgCtx, learnerService)
	}

	go func() {
		log.Printf("Server starting on http://localhost%s (store: %s)", addr, store.Kind())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down cleanly: %v", err)
	}
}

// seedFunc returns the first-run state: the seed file when one is
// configured, otherwise the built-in household
func seedFunc(path string) func() (models.AppState, error) {
	return func() (models.AppState, error) {
		if path == "" {
			return seed.Default(), nil
		}
		log.Printf("Seeding state from %s", path)
		return seed.LoadFile(path)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := authService.CleanupExpiredSessions(); n > 0 {
				log.Printf("Cleaned up %d expired sessions", n)
			}
		}
	}
}

// dailyRollover checks every minute whether the saved last reset has fallen
// behind the local date
func dailyRollover(ctx context.Context, learnerService *service.LearnerService) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runRollover(ctx, learnerService)
		}
	}
}

func runRollover(ctx context.Context, learnerService *service.LearnerService) {
	ran, err := learnerService.RolloverIfDue(ctx)
	if err != nil {
		log.Printf("Failed to run daily reset: %v", err)
		return
	}
	if ran {
		log.Println("Daily reset complete")
	}
}
