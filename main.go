package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/divilog/backend/src/config"
	"github.com/username/divilog/backend/src/database"
	"github.com/username/divilog/backend/src/handlers"
	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/processors"
	"github.com/username/divilog/backend/src/security"
	"github.com/username/divilog/backend/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("DiviLog backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	snapshotCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	handlers.InitializeGoogleOAuthConfig()

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	mfaService := services.NewMFAService()

	dividendProcessor := processors.NewDividendProcessor()
	rateProcessor := processors.NewExchangeRateProcessor()

	dividendService := services.NewDividendService(database.DB, snapshotCache)
	rateProvider := services.NewUserRateProvider(database.DB)
	summaryService := services.NewSummaryService(
		dividendService,
		rateProvider,
		dividendProcessor,
		rateProcessor,
	)

	userHandler := handlers.NewUserHandler(authService, emailService, dividendService, mfaService)
	dividendHandler := handlers.NewDividendHandler(dividendService, summaryService, dividendProcessor)
	stockHandler := handlers.NewStockHandler(dividendService)
	settingsHandler := handlers.NewSettingsHandler()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "DiviLog Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
			r.Get("/auth/verify-email", userHandler.VerifyEmailHandler)
			r.Get("/auth/google/login", userHandler.HandleGoogleLogin)
			r.Get("/auth/google/callback", userHandler.HandleGoogleCallback)
		})

		// Auth routes (CSRF protected)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
			r.Post("/auth/request-password-reset", userHandler.RequestPasswordResetHandler)
			r.Post("/auth/reset-password", userHandler.ResetPasswordHandler)
		})

		// Protected routes (authentication and CSRF required)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Use(userHandler.AuthMiddleware)

			r.Get("/dividends", dividendHandler.HandleListDividends)
			r.Post("/dividends", dividendHandler.HandleCreateDividend)
			r.Put("/dividends/{dividendID}", dividendHandler.HandleUpdateDividend)
			r.Delete("/dividends/{dividendID}", dividendHandler.HandleDeleteDividend)

			r.Get("/dividends/summary/monthly", dividendHandler.HandleMonthlySummary)
			r.Get("/dividends/summary/total", dividendHandler.HandleTotalSummary)
			r.Get("/dividends/summary/daily", dividendHandler.HandleDailyBreakdown)
			r.Get("/dividends/summary/calendar", dividendHandler.HandleCalendar)
			r.Get("/dividends/summary/stocks", dividendHandler.HandleStockBreakdown)

			r.Get("/stocks", stockHandler.HandleListStocks)
			r.Post("/stocks", stockHandler.HandleCreateStock)
			r.Put("/stocks/{stockID}", stockHandler.HandleUpdateStock)
			r.Delete("/stocks/{stockID}", stockHandler.HandleDeleteStock)

			r.Get("/settings/exchange-rate", settingsHandler.HandleGetExchangeRate)
			r.Put("/settings/exchange-rate", settingsHandler.HandleUpdateExchangeRate)

			r.Get("/user/has-data", userHandler.HandleCheckUserData)
			r.Post("/user/change-password", userHandler.ChangePasswordHandler)
			r.Post("/user/delete-account", userHandler.DeleteAccountHandler)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(userHandler.AdminMiddleware)
				r.Get("/admin/mfa/setup", userHandler.HandleGenerateMfaSecret)
				r.Post("/admin/mfa/enable", userHandler.HandleEnableMfa)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
