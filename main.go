package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyRatsAPI/handlers"
	"studyRatsAPI/internal/storage"
	"studyRatsAPI/middleware"
	"studyRatsAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool         *pgxpool.Pool
	profileService *services.ProfileService
	sessionService *services.SessionService
	statsService   *services.StatsService
	groupService   *services.GroupService
	feedService    *services.FeedService
	photoStore     *storage.FirebasePhotoStore
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to NeonDB")

	profileService = services.NewProfileService(dbPool)
	sessionService = services.NewSessionService(dbPool)
	statsService = services.NewStatsService(dbPool)
	groupService = services.NewGroupService(dbPool)

	var photos storage.PhotoStore
	photoStore, err = storage.NewFirebasePhotoStore(ctx, "./serviceAccountKey.json", os.Getenv("FIREBASE_STORAGE_BUCKET"))
	if err != nil {
		log.Printf("Warning: Could not initialize photo storage: %v", err)
	} else {
		log.Println("Firebase photo storage initialized successfully")
		photos = photoStore
	}
	feedService = services.NewFeedService(dbPool, photos)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	profileHandler := handlers.NewProfileHandler(profileService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	statsHandler := handlers.NewStatsHandler(statsService)
	groupHandler := handlers.NewGroupHandler(groupService)
	feedHandler := handlers.NewFeedHandler(feedService)
	webhookHandler := handlers.NewWebhookHandler(profileService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "studyRats-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", profileHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", profileHandler.DeleteAccount).Methods("DELETE")

	protected.HandleFunc("/user/sessions/start", sessionHandler.StartSession).Methods("POST")
	protected.HandleFunc("/user/sessions/{sessionID}/stop", sessionHandler.StopSession).Methods("PUT")
	protected.HandleFunc("/user/sessions/active", sessionHandler.GetActiveSession).Methods("GET")

	protected.HandleFunc("/user/stats", statsHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/user/stats/weekly", statsHandler.GetWeeklyStats).Methods("GET")
	protected.HandleFunc("/user/calendar", statsHandler.GetCalendar).Methods("GET")

	protected.HandleFunc("/feed", feedHandler.GetFeed).Methods("GET")
	protected.HandleFunc("/feed", feedHandler.CreatePost).Methods("POST")

	protected.HandleFunc("/groups/create", groupHandler.CreateGroup).Methods("POST")
	protected.HandleFunc("/groups", groupHandler.GetMyGroups).Methods("GET")
	protected.HandleFunc("/groups/discovery", groupHandler.GetDiscovery).Methods("GET")
	protected.HandleFunc("/groups/join-by-token", groupHandler.JoinByToken).Methods("POST")
	protected.HandleFunc("/groups/{groupID}/join", groupHandler.JoinGroup).Methods("POST")
	protected.HandleFunc("/groups/{groupID}/ranking", groupHandler.GetRanking).Methods("GET")
	protected.HandleFunc("/groups/{groupID}/invite", groupHandler.GetInvite).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
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
