package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"recruitdesk/config"
	_ "recruitdesk/docs"
	"recruitdesk/internal/adapters/auth"
	"recruitdesk/internal/adapters/email"
	delivery "recruitdesk/internal/delivery/http"
	"recruitdesk/internal/delivery/http/controllers"
	"recruitdesk/internal/delivery/http/middleware"
	"recruitdesk/internal/repository/postgres"
	"recruitdesk/internal/services"
)

const bcryptCost = 12

// @title RecruitDesk API
// @version 1.0
// @description Recruitment platform backend: job postings, candidate applications, and interview slot scheduling.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	// Repositories
	slotRepo := postgres.NewInterviewSlotRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mailer.SESRegion,
			AccessKeyID:        cfg.Mailer.SESAccessKeyID,
			SecretAccessKey:    cfg.Mailer.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Mailer.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	scheduleService := services.NewScheduleService(slotRepo, applicationRepo, emailService, cfg.ContextTimeout)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, cfg.ContextTimeout)
	jobService := services.NewJobService(jobRepo, cfg.ContextTimeout)
	userService := services.NewUserService(userRepo, roleRepo, hasher, tokenIssuer, cfg.TokenExpiry)

	// Controllers
	userController := controllers.NewUserController(logger, userService)
	jobController := controllers.NewJobController(logger, jobService)
	applicationController := controllers.NewApplicationController(logger, applicationService)
	slotController := controllers.NewSlotController(logger, scheduleService)

	mux := delivery.NewRouter(logger, tokenVerifier, userController, jobController, applicationController, slotController)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
