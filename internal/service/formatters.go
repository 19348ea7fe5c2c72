package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sokdnv/padel-bot/internal/db"
	"github.com/sokdnv/padel-bot/internal/entities"
)

const (
	dateKeyLayout  = "2006-01-02"
	dateShowLayout = "02.01.2006"
)

func FormatDate(date time.Time) string {
	return date.Format(dateShowLayout)
}

func DateKey(date time.Time) string {
	return date.Format(dateKeyLayout)
}

// ParseGameTime accepts "15:04" and "15:04:05" (the TIME column scans with
// seconds) and returns the time of day.
func ParseGameTime(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable game time %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatGameTime trims seconds: "19:00:00" -> "19:00".
func FormatGameTime(value string) string {
	if len(value) > 5 {
		return value[:5]
	}
	return value
}

// DisplayName formats a user the way the chat shows them: @username, else
// first name with optional last name, else a synthesized label.
func DisplayName(u db.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		if u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
		return u.FirstName
	}
	return fmt.Sprintf("User%d", u.ID)
}

func FallbackName(userID int64) string {
	return fmt.Sprintf("User%d", userID)
}

func reminderMessage(game *db.GameSlot, playerNames []string, leadHours int) string {
	timeStr := "время не указано"
	if game.HasTime() {
		timeStr = FormatGameTime(game.Time.String)
	}
	locationStr := "место не указано"
	if game.Location.Valid && game.Location.String != "" {
		locationStr = game.Location.String
		if game.Court.Valid {
			locationStr += fmt.Sprintf(", корт %d", game.Court.Int64)
		}
	}

	return fmt.Sprintf(
		"⏰ <b>Напоминание об игре!</b>\n\n"+
			"🎾 Игра через %d ч.\n"+
			"🕐 %s\n"+
			"📍 %s\n\n"+
			"👥 %s\n\n"+
			"До встречи на корте! 🎾",
		leadHours, timeStr, locationStr, strings.Join(playerNames, ", "),
	)
}

func paymentOfferMessage(game *db.GameSlot) string {
	return fmt.Sprintf(
		"💰 <b>Сбор денег за игру</b>\n\n"+
			"Игра <b>%s %s</b> завершилась.\n"+
			"Собрать деньги с участников?",
		FormatDate(game.Date), FormatGameTime(game.Time.String),
	)
}

func joinedBroadcast(userName, dateFormatted string) string {
	return fmt.Sprintf(
		"🎾 <b>Новая запись на игру!</b>\n\n%s записался/-лась на <b>%s</b>",
		userName, dateFormatted,
	)
}

func leftBroadcast(userName, dateFormatted string) string {
	return fmt.Sprintf(
		"⚠️ <b>Игрок удалился</b>\n\n%s удалился/-лась из игры <b>%s</b>\n\n🔓 Освободилось место!",
		userName, dateFormatted,
	)
}

func newGameBroadcast(game *db.GameSlot) string {
	timeStr := "время не указано"
	if game.HasTime() {
		timeStr = FormatGameTime(game.Time.String)
	}
	locationStr := "место не указано"
	if game.Location.Valid && game.Location.String != "" {
		locationStr = game.Location.String
	}
	return fmt.Sprintf(
		"🎾 <b>Новая игра!</b>\n\n📅 %s\n🕐 %s\n📍 %s\n\nЗаписывайтесь!",
		FormatDate(game.Date), timeStr, locationStr,
	)
}

func cancelledBroadcast(creatorName, dateFormatted string) string {
	return fmt.Sprintf(
		"❌ <b>Игра отменена</b>\n\nСоздатель %s отменил игру на <b>%s</b>\nИзвините за неудобства!",
		creatorName, dateFormatted,
	)
}

// GameView builds the API projection of a game, resolving player names
// through the given map with a synthesized fallback.
func GameView(game *db.GameSlot, names map[int64]string) entities.GameView {
	view := entities.GameView{
		Date:      DateKey(game.Date),
		Duration:  game.Duration,
		FreeSlots: game.FreeSlots(),
		Players:   []string{},
	}
	if game.HasTime() {
		view.Time = FormatGameTime(game.Time.String)
	}
	if game.Location.Valid {
		view.Location = game.Location.String
	}
	if game.Court.Valid {
		view.Court = game.Court.Int64
	}
	if game.Admin.Valid {
		view.AdminID = game.Admin.Int64
	}
	for _, id := range game.Players() {
		name, ok := names[id]
		if !ok {
			name = FallbackName(id)
		}
		view.Players = append(view.Players, name)
	}
	return view
}
