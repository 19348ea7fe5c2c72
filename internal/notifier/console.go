package notifier

import "log"

// ConsoleNotifier logs messages instead of sending them. Used for local runs
// without a bot token.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Send(userID int64, message string) error {
	log.Printf("[notify] to=%d :: %s", userID, message)
	return nil
}
