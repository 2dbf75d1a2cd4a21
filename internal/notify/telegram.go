package notify

import (
	"context"
	"fmt"
	"strconv"

	"skate_app/internal/domain"
	"skate_app/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers game events as direct messages. It covers
// deploys where player ids are Telegram chat ids (the mini-app); ids
// that do not parse as a chat id are silently skipped and left to the
// other transports.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("telegram notifier authorized", "username", bot.Self.UserName)
	return &TelegramNotifier{bot: bot}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, n domain.Notification) error {
	chatID, err := strconv.ParseInt(n.UserID, 10, 64)
	if err != nil {
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, n.Message)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}
