package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"silentlibrary/internal/auth"
	"silentlibrary/internal/cache"
	"silentlibrary/internal/config"
	"silentlibrary/internal/db"
	"silentlibrary/internal/handler"
	"silentlibrary/internal/mailer"
	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
	"silentlibrary/internal/router"
	"silentlibrary/internal/service"
	"silentlibrary/internal/view"
)

func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("template init: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Notification{},
			&model.Review{},
			&model.Fine{},
			&model.Loan{},
			&model.BookAuthor{},
			&model.BookGenre{},
			&model.Book{},
			&model.Author{},
			&model.Genre{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.SetupJoinTable(&model.Book{}, "Authors", &model.BookAuthor{}); err != nil {
		log.Fatalf("setup authors join table: %v", err)
	}
	if err := gormDB.SetupJoinTable(&model.Book{}, "Genres", &model.BookGenre{}); err != nil {
		log.Fatalf("setup genres join table: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Author{},
		&model.Genre{},
		&model.Book{},
		&model.Loan{},
		&model.Fine{},
		&model.Review{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	authorRepo := repository.NewAuthorRepository(gormDB)
	genreRepo := repository.NewGenreRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	loanRepo := repository.NewLoanRepository(gormDB)
	fineRepo := repository.NewFineRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	dailyRate, err := decimal.NewFromString(cfg.FineDailyRate)
	if err != nil {
		log.Fatalf("invalid FINE_DAILY_RATE %q: %v", cfg.FineDailyRate, err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, notificationRepo, jwtService, tokenStore, mail)
	userService := service.NewUserService(userRepo)
	bookService := service.NewBookService(bookRepo, authorRepo, genreRepo, cacheClient)
	loanService := service.NewLoanService(loanRepo, fineRepo, notificationRepo, cacheClient, cfg.LoanPeriodDays, dailyRate)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	pageHandler := handler.NewPageHandler()
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, loanService, notificationService)
	bookHandler := handler.NewBookHandler(bookService, loanService, reviewService)
	adminHandler := handler.NewAdminHandler(bookService, loanService)

	// Register routes
	if err := router.Register(
		e,
		cfg,
		jwtService,
		authService,
		pageHandler,
		authHandler,
		userHandler,
		bookHandler,
		adminHandler,
	); err != nil {
		log.Fatalf("router init: %v", err)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
