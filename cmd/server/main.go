package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/teachquest/backend/internal/auth"
	"github.com/teachquest/backend/internal/courses"
	"github.com/teachquest/backend/internal/database"
	"github.com/teachquest/backend/internal/evaluations"
	"github.com/teachquest/backend/internal/middleware"
	"github.com/teachquest/backend/internal/progression"
	"github.com/teachquest/backend/internal/resources"
	"github.com/teachquest/backend/internal/sessions"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Core progression service, shared by every completion trigger
	progService := progression.NewService(progression.NewStore(db))
	progHandler := progression.NewHandler(progService)

	authHandler := auth.NewHandler(db, progService)
	courseHandler := courses.NewHandler(courses.NewService(courses.NewStore(db), progService))
	resourceHandler := resources.NewHandler(resources.NewService(resources.NewStore(db), progService))
	sessionHandler := sessions.NewHandler(sessions.NewService(sessions.NewStore(db), progService))
	evalHandler := evaluations.NewHandler(evaluations.NewService(evaluations.NewStore(db), progService))

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/progress", progHandler.GetOwnProgress).Methods("GET")
	protected.HandleFunc("/progress/activity", progHandler.Activity).Methods("GET")
	protected.HandleFunc("/progress/xp", progHandler.AwardXP).Methods("POST")
	protected.HandleFunc("/progress/streak", progHandler.UpdateStreak).Methods("POST")
	protected.HandleFunc("/progress/{userID:[0-9]+}", progHandler.GetProgress).Methods("GET")

	protected.HandleFunc("/badges", progHandler.ListBadges).Methods("GET")
	protected.HandleFunc("/badges/award", progHandler.AwardBadge).Methods("POST")
	protected.HandleFunc("/leaderboard", progHandler.Leaderboard).Methods("GET")

	protected.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	protected.HandleFunc("/courses/{id:[0-9]+}", courseHandler.GetCourse).Methods("GET")
	protected.HandleFunc("/courses/{id:[0-9]+}/videos/{videoID:[0-9]+}/progress", courseHandler.UpdateVideoProgress).Methods("PUT")

	protected.HandleFunc("/resources", resourceHandler.ListResources).Methods("GET")
	protected.HandleFunc("/resources/{id:[0-9]+}/download", resourceHandler.Download).Methods("POST")

	protected.HandleFunc("/sessions", sessionHandler.ListSessions).Methods("GET")
	protected.HandleFunc("/sessions/{id:[0-9]+}/register", sessionHandler.Register).Methods("POST")
	protected.HandleFunc("/sessions/{id:[0-9]+}/attendance", sessionHandler.MarkAttendance).Methods("POST")

	protected.HandleFunc("/evaluations", evalHandler.ListEvaluations).Methods("GET")
	protected.HandleFunc("/evaluations/{id:[0-9]+}/submit", evalHandler.Submit).Methods("POST")
	protected.HandleFunc("/evaluations/{id:[0-9]+}/review", evalHandler.Review).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
