package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers notification texts to linked chats.
type Sender struct {
	bot Bot
}

func NewSender(bot Bot) *Sender {
	return &Sender{bot: bot}
}

func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
