package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends admin notifications. Implementations are best-effort; the
// site keeps working when delivery fails.
type Notifier interface {
	Notify(text string) error
}

// Telegram delivers notifications to the admin's chat. Send-only, no update
// polling.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	log.Printf("✅ Telegram notifier authorized as @%s", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// LogOnly is the fallback when no Telegram token is configured.
type LogOnly struct{}

func (LogOnly) Notify(text string) error {
	log.Printf("📣 notification: %s", text)
	return nil
}
