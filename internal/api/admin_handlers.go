package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/service"
)

type AdminHandler struct {
	Creation *service.GameCreationService
	Jobs     *service.JobService
}

func NewAdminHandler(creation *service.GameCreationService, jobs *service.JobService) *AdminHandler {
	return &AdminHandler{Creation: creation, Jobs: jobs}
}

func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	if req.Time != "" {
		if _, err := time.Parse("15:04", req.Time); err != nil {
			http.Error(w, "Invalid time", http.StatusBadRequest)
			return
		}
	}
	if req.AdminID == 0 {
		http.Error(w, "admin_id is required", http.StatusBadRequest)
		return
	}
	if req.Duration <= 0 {
		req.Duration = 120
	}

	game := &db.GameSlot{
		Date:     date,
		Duration: req.Duration,
		Admin:    sql.NullInt64{Int64: req.AdminID, Valid: true},
	}
	if req.Time != "" {
		game.Time = sql.NullString{String: req.Time, Valid: true}
	}
	if req.Location != "" {
		game.Location = sql.NullString{String: req.Location, Valid: true}
	}
	if req.Court != 0 {
		game.Court = sql.NullInt64{Int64: req.Court, Valid: true}
	}

	result := h.Creation.CreateGame(game, req.AutoRegister)
	writeResult(w, result)
}

// SeedGames creates empty slots for the next N Thursdays on demand; the
// same work runs weekly on cron.
func (h *AdminHandler) SeedGames(w http.ResponseWriter, r *http.Request) {
	weeks, err := strconv.Atoi(r.URL.Query().Get("weeks"))
	if err != nil || weeks <= 0 {
		weeks = 4
	}
	if err := h.Jobs.SeedWeeklyGames(weeks); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Games seeded"})
}
