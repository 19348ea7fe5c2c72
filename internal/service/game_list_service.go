package service

import (
	"fmt"
	"log"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/entities"
	"github.com/sokdnv/padel-bot/internal/repository"
)

// GameListService builds paginated game listings for the UI layer.
type GameListService struct {
	Repo    *repository.GameRepository
	users   UserDirectory
	PerPage int
}

func NewGameListService(repo *repository.GameRepository, users UserDirectory, perPage int) *GameListService {
	if perPage <= 0 {
		perPage = 4
	}
	return &GameListService{Repo: repo, users: users, PerPage: perPage}
}

func (s *GameListService) UpcomingGames(page int) (*entities.GameListResponse, error) {
	games, err := s.Repo.GetUpcomingGames(s.PerPage, page*s.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming games: %w", err)
	}
	total, err := s.Repo.CountUpcomingGames()
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming games: %w", err)
	}
	return s.buildResponse(games, page, total), nil
}

func (s *GameListService) AvailableGames(page int) (*entities.GameListResponse, error) {
	games, err := s.Repo.GetAvailableGames(s.PerPage, page*s.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list available games: %w", err)
	}
	total, err := s.Repo.CountAvailableGames()
	if err != nil {
		return nil, fmt.Errorf("failed to count available games: %w", err)
	}
	return s.buildResponse(games, page, total), nil
}

func (s *GameListService) UserGames(userID int64, page int) (*entities.GameListResponse, error) {
	games, err := s.Repo.GetUserGames(userID, s.PerPage, page*s.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for user %d: %w", userID, err)
	}
	total, err := s.Repo.CountUserGames(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count games for user %d: %w", userID, err)
	}
	return s.buildResponse(games, page, total), nil
}

func (s *GameListService) buildResponse(games []db.GameSlot, page, total int) *entities.GameListResponse {
	names := s.resolveNames(games)

	resp := &entities.GameListResponse{
		Games:      make([]entities.GameView, 0, len(games)),
		Page:       page,
		TotalPages: (total + s.PerPage - 1) / s.PerPage,
	}
	for i := range games {
		resp.Games = append(resp.Games, GameView(&games[i], names))
	}
	return resp
}

// resolveNames collects the players across all listed games and resolves
// them in one query. A resolution failure degrades to fallback labels.
func (s *GameListService) resolveNames(games []db.GameSlot) map[int64]string {
	idSet := make(map[int64]struct{})
	for i := range games {
		for _, id := range games[i].Players() {
			idSet[id] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return map[int64]string{}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := s.users.ResolveDisplayNames(ids)
	if err != nil {
		log.Printf("Failed to resolve player names for listing: %v", err)
		return map[int64]string{}
	}
	return names
}
