package api

// Booking
type PlayerRequest struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Game creation
type CreateGameRequest struct {
	Date         string `json:"date"` // "2006-01-02"
	Time         string `json:"time"` // "15:04", optional
	Duration     int    `json:"duration"`
	Location     string `json:"location"`
	Court        int64  `json:"court"`
	AdminID      int64  `json:"admin_id"`
	AutoRegister bool   `json:"auto_register"`
}

// Auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
