package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/sokdnv/padel-bot/internal/api"
	"github.com/sokdnv/padel-bot/internal/auth"
	"github.com/sokdnv/padel-bot/internal/config"
	"github.com/sokdnv/padel-bot/internal/notifier"
	"github.com/sokdnv/padel-bot/internal/repository"
	"github.com/sokdnv/padel-bot/internal/service"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	gameRepo := repository.NewGameRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	// Store and notifier must exist before the scheduler: the scheduler's
	// timers close over both.
	var sender service.Notifier
	if cfg.NotifyChannel == "console" || cfg.BotToken == "" {
		sender = notifier.NewConsole()
	} else {
		sender = notifier.NewTelegramNotifier(cfg.BotToken)
	}

	registry := service.NewTaskRegistry()
	reminderCfg := service.DefaultReminderConfig()
	reminderCfg.Lead = time.Duration(cfg.ReminderLeadHours) * time.Hour
	reminderCfg.MaxUpcoming = cfg.MaxUpcomingGames
	reminders := service.NewReminderService(gameRepo, userRepo, sender, registry, reminderCfg)

	broadcast := service.NewBroadcastService(userRepo, sender)
	booking := service.NewBookingService(gameRepo, userRepo, reminders, broadcast, true)
	creation := service.NewGameCreationService(gameRepo, reminders, broadcast, true)
	lists := service.NewGameListService(gameRepo, userRepo, 4)
	jobs := service.NewJobService(jobRepo, reminders)
	adminAuth := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)

	// Timers do not survive restarts; rebuild them from the store before
	// serving traffic.
	if err := reminders.ScheduleAllUpcoming(); err != nil {
		log.Printf("Startup reconciliation failed: %v", err)
	}

	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := jobs.ReconcileReminders(); err != nil {
			log.Printf("Reminder reconciliation failed: %v", err)
		}
	})
	c.AddFunc("@weekly", func() {
		if err := jobs.SeedWeeklyGames(4); err != nil {
			log.Printf("Weekly seeding failed: %v", err)
		}
		if err := jobs.CleanupOldGames(30); err != nil {
			log.Printf("Old game cleanup failed: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	gameHandler := api.NewGameHandler(booking, lists)
	adminHandler := api.NewAdminHandler(creation, jobs)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuth)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/login", adminAuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/games", gameHandler.ListGames).Methods("GET")
	r.HandleFunc("/api/games/available", gameHandler.ListAvailableGames).Methods("GET")
	r.HandleFunc("/api/games/user/{user_id}", gameHandler.ListUserGames).Methods("GET")
	r.HandleFunc("/api/games/{date}/join", gameHandler.JoinGame).Methods("POST")
	r.HandleFunc("/api/games/{date}/leave", gameHandler.LeaveGame).Methods("POST")
	r.HandleFunc("/api/games/{date}", gameHandler.DeleteGame).Methods("DELETE")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/games", adminHandler.CreateGame).Methods("POST")
	admin.HandleFunc("/games/seed", adminHandler.SeedGames).Methods("POST")
	admin.HandleFunc("/register", adminAuthHandler.CreateAdmin).Methods("POST")

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, r)))
}
