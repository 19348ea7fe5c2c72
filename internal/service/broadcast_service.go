package service

import (
	"log"
)

// BroadcastService fans a message out to users in the background. Broadcasts
// are best-effort announcements and never block or fail the operation that
// triggered them.
type BroadcastService struct {
	users    UserDirectory
	notifier Notifier
}

func NewBroadcastService(users UserDirectory, notifier Notifier) *BroadcastService {
	return &BroadcastService{users: users, notifier: notifier}
}

// SendToAllAsync delivers message to every known user except excludeUserID.
func (b *BroadcastService) SendToAllAsync(message string, excludeUserID int64) {
	go func() {
		userIDs, err := b.users.AllUserIDs()
		if err != nil {
			log.Printf("Broadcast aborted, failed to list users: %v", err)
			return
		}

		sent, failed := 0, 0
		for _, id := range userIDs {
			if id == excludeUserID {
				continue
			}
			if err := b.notifier.Send(id, message); err != nil {
				log.Printf("Failed to notify user %d: %v", id, err)
				failed++
				continue
			}
			sent++
		}
		log.Printf("Broadcast delivered: %d sent, %d failed", sent, failed)
	}()
}

// SendToPlayersAsync delivers message to the listed players only.
func (b *BroadcastService) SendToPlayersAsync(message string, playerIDs []int64) {
	go func() {
		for _, id := range playerIDs {
			if err := b.notifier.Send(id, message); err != nil {
				log.Printf("Failed to notify player %d: %v", id, err)
			}
		}
	}()
}
