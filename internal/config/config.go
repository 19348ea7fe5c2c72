package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Telegram
	BotToken      string `envconfig:"BOT_TOKEN"`
	NotifyChannel string `envconfig:"NOTIFY_CHANNEL" default:"telegram"` // telegram | console
	// Admin API
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	Port      string `envconfig:"PORT" default:"8080"`
	// Reminders
	ReminderLeadHours int `envconfig:"REMINDER_LEAD_HOURS" default:"3"`
	MaxUpcomingGames  int `envconfig:"MAX_UPCOMING_GAMES" default:"100"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
