package entities

type GameView struct {
	Date      string   `json:"date"`
	Time      string   `json:"time,omitempty"`
	Duration  int      `json:"duration"`
	Location  string   `json:"location,omitempty"`
	Court     int64    `json:"court,omitempty"`
	AdminID   int64    `json:"admin_id,omitempty"`
	Players   []string `json:"players"`
	FreeSlots int      `json:"free_slots"`
}

type GameListResponse struct {
	Games      []GameView `json:"games"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}
