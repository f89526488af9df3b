package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"learnpath/internal/api"
	"learnpath/internal/config"
	"learnpath/internal/db"
	"learnpath/internal/llm"
	"learnpath/internal/planner"
	"learnpath/internal/repository"
	"learnpath/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "learnpath",
		Short:         "AI day-by-day learning plan service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			database, err := db.OpenDB(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()
			log.Printf("migrations applied to %s", cfg.Database.Path)
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

func serve(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Println("Configuration loaded.")

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	log.Printf("Database open at %s.", cfg.Database.Path)

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire LLM client and chunk generator
	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	llmClient := llm.NewGeminiClient(llm.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		TimeoutMs:   cfg.LLM.TimeoutMs,
		MaxRetries:  cfg.LLM.MaxRetries,
		BackoffMs:   cfg.LLM.BackoffMs,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, observer)
	generator := planner.NewGenerator(llmClient)

	// Wire services
	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLen)
	planSvc := service.NewPlanService(planRepo, taskRepo, generator, uow)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, planRepo, cfg.Auth.AdminPassword)

	router := gin.Default()
	api.SetupRoutes(router, authSvc, planSvc, feedbackSvc)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("Server stopped.")
	return nil
}
