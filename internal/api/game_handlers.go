package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/entities"
	"github.com/sokdnv/padel-bot/internal/service"
)

type GameHandler struct {
	Booking *service.BookingService
	Lists   *service.GameListService
}

func NewGameHandler(booking *service.BookingService, lists *service.GameListService) *GameHandler {
	return &GameHandler{Booking: booking, Lists: lists}
}

func parseGameDate(r *http.Request) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	return date, err == nil
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// outcomeStatus maps a booking outcome onto an HTTP status. The structured
// result is always the body; the status is a convenience for API clients.
func outcomeStatus(result entities.Result) int {
	switch result.Outcome {
	case entities.OutcomeNotFound:
		return http.StatusNotFound
	case entities.OutcomeForbidden:
		return http.StatusForbidden
	case entities.OutcomeFull, entities.OutcomeAlreadyJoined, entities.OutcomeNotJoined, entities.OutcomeAlreadyExists:
		return http.StatusConflict
	case entities.OutcomeStoreError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func writeResult(w http.ResponseWriter, result entities.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcomeStatus(result))
	json.NewEncoder(w).Encode(result)
}

func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	date, ok := parseGameDate(r)
	if !ok {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.Booking.Join(date, db.User{
		ID:        req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	writeResult(w, result)
}

func (h *GameHandler) LeaveGame(w http.ResponseWriter, r *http.Request) {
	date, ok := parseGameDate(r)
	if !ok {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.Booking.Leave(date, db.User{
		ID:        req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	writeResult(w, result)
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	date, ok := parseGameDate(r)
	if !ok {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.Booking.Delete(date, db.User{
		ID:        req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	writeResult(w, result)
}

func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Lists.UpcomingGames(pageParam(r))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *GameHandler) ListAvailableGames(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Lists.AvailableGames(pageParam(r))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *GameHandler) ListUserGames(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	resp, err := h.Lists.UserGames(userID, pageParam(r))
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
