package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoTrackAPI/handlers"
	"ecoTrackAPI/internal/config"
	"ecoTrackAPI/middleware"
	"ecoTrackAPI/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Successfully connected to database")

	middleware.InitPrometheus()

	// Services
	challengeService := services.NewChallengeService(dbPool)
	participationService := services.NewParticipationService(dbPool)
	tipService := services.NewTipService(dbPool)
	eventService := services.NewEventService(dbPool)
	statsService := services.NewStatsService(dbPool)

	// Handlers
	challengeHandler := handlers.NewChallengeHandler(challengeService, participationService)
	userChallengeHandler := handlers.NewUserChallengeHandler(participationService)
	tipHandler := handlers.NewTipHandler(tipService)
	eventHandler := handlers.NewEventHandler(eventService)
	statsHandler := handlers.NewStatsHandler(statsService, participationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "EcoTrack API is running"}`))
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ecotrack-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	api.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	api.HandleFunc("/challenges/join/{id}", challengeHandler.JoinChallenge).Methods("POST")
	api.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")
	api.HandleFunc("/challenges/{id}", challengeHandler.UpdateChallenge).Methods("PATCH")
	api.HandleFunc("/challenges/{id}", challengeHandler.DeleteChallenge).Methods("DELETE")

	api.HandleFunc("/user-challenges", userChallengeHandler.ListUserChallenges).Methods("GET")
	api.HandleFunc("/user-challenges/{id}", userChallengeHandler.GetUserChallenge).Methods("GET")
	api.HandleFunc("/user-challenges/{id}", userChallengeHandler.UpdateUserChallenge).Methods("PATCH")
	api.HandleFunc("/user-challenges/{id}", userChallengeHandler.LeaveChallenge).Methods("DELETE")

	api.HandleFunc("/tips", tipHandler.ListTips).Methods("GET")
	api.HandleFunc("/tips", tipHandler.CreateTip).Methods("POST")
	api.HandleFunc("/tips/{id}", tipHandler.UpdateTip).Methods("PATCH")
	api.HandleFunc("/tips/{id}", tipHandler.DeleteTip).Methods("DELETE")

	api.HandleFunc("/events", eventHandler.ListEvents).Methods("GET")
	api.HandleFunc("/events", eventHandler.CreateEvent).Methods("POST")
	api.HandleFunc("/events/{id}", eventHandler.UpdateEvent).Methods("PATCH")
	api.HandleFunc("/events/{id}", eventHandler.DeleteEvent).Methods("DELETE")

	api.HandleFunc("/stats/community", statsHandler.GetCommunityStats).Methods("GET")

	api.HandleFunc("/admin/reconcile-participants", statsHandler.ReconcileParticipants).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"ok": false, "message": "API route not found"}`))
			return
		}
		http.NotFound(w, r)
	})

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	server := http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
