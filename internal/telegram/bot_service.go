// Package telegram lets users receive their notifications in a Telegram chat.
// A chat is bound to an account with a short code issued on the website.
package telegram

import (
	"alumnihub/backend/internal/localization"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the part of the Bot API client the service uses. *tgbotapi.BotAPI satisfies it.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Store is what the bot reads and writes.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ConsumeLinkCode(ctx context.Context, code string) (string, error)
}

// BotService receives updates and answers the account commands.
type BotService struct {
	bot   Bot
	store Store
	loc   *localization.Localizer
	log   *logging.Logger
}

func NewBotService(bot Bot, store Store, loc *localization.Localizer, log *logging.Logger) *BotService {
	return &BotService{
		bot:   bot,
		store: store,
		loc:   loc,
		log:   log.With("component", "telegram"),
	}
}

// Run long-polls updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.bot.GetUpdatesChan(u)
	s.log.Info("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			s.log.Info("telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				s.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (s *BotService) text(key string, args ...any) string {
	if len(args) == 0 {
		return s.loc.GetString(localization.DefaultLanguage, key)
	}
	return s.loc.Format(localization.DefaultLanguage, key, args...)
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.log.Error("failed to send telegram reply", "chat_id", chatID, "error", err)
	}
}

func (s *BotService) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		s.reply(chatID, s.text("bot_unknown_command"))
		return
	}

	switch msg.Command() {
	case "start":
		// t.me/<bot>?start=<code> arrives as "/start <code>".
		if code := strings.TrimSpace(msg.CommandArguments()); code != "" {
			s.reply(chatID, s.link(ctx, chatID, code))
			return
		}
		s.reply(chatID, s.text("bot_welcome"))
	case "link":
		code := strings.TrimSpace(msg.CommandArguments())
		if code == "" {
			s.reply(chatID, s.text("bot_link_usage"))
			return
		}
		s.reply(chatID, s.link(ctx, chatID, code))
	case "notify_on", "notify_off":
		s.reply(chatID, s.setNotify(ctx, chatID, msg.Command() == "notify_on"))
	case "unlink":
		s.reply(chatID, s.unlink(ctx, chatID))
	default:
		s.reply(chatID, s.text("bot_unknown_command"))
	}
}

// link binds chatID to the account that requested code and returns the reply text.
func (s *BotService) link(ctx context.Context, chatID int64, code string) string {
	userID, err := s.store.ConsumeLinkCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return s.text("bot_link_invalid")
	}
	if err != nil {
		s.log.Error("failed to read link code", "error", err)
		return s.text("bot_error")
	}

	owner, err := s.store.GetUserByTelegramChatID(ctx, chatID)
	switch {
	case err == nil && owner.ID != userID:
		return s.text("bot_link_taken")
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		s.log.Error("failed to look up chat owner", "chat_id", chatID, "error", err)
		return s.text("bot_error")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Error("failed to load user for link", "user_id", userID, "error", err)
		return s.text("bot_link_invalid")
	}
	user.TelegramChatID = &chatID
	user.TelegramNotify = true
	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return s.text("bot_link_taken")
		}
		s.log.Error("failed to save telegram link", "user_id", userID, "error", err)
		return s.text("bot_error")
	}

	s.log.Info("telegram chat linked", "user_id", userID)
	return s.text("bot_link_success", user.Name)
}

func (s *BotService) linkedUser(ctx context.Context, chatID int64) (*models.User, string) {
	user, err := s.store.GetUserByTelegramChatID(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, s.text("bot_not_linked")
	}
	if err != nil {
		s.log.Error("failed to look up chat owner", "chat_id", chatID, "error", err)
		return nil, s.text("bot_error")
	}
	return user, ""
}

func (s *BotService) setNotify(ctx context.Context, chatID int64, on bool) string {
	user, errText := s.linkedUser(ctx, chatID)
	if user == nil {
		return errText
	}
	user.TelegramNotify = on
	if err := s.store.SaveUser(ctx, user); err != nil {
		s.log.Error("failed to update telegram preference", "user_id", user.ID, "error", err)
		return s.text("bot_error")
	}
	if on {
		return s.text("bot_notify_on")
	}
	return s.text("bot_notify_off")
}

func (s *BotService) unlink(ctx context.Context, chatID int64) string {
	user, errText := s.linkedUser(ctx, chatID)
	if user == nil {
		return errText
	}
	user.TelegramChatID = nil
	if err := s.store.SaveUser(ctx, user); err != nil {
		s.log.Error("failed to unlink telegram", "user_id", user.ID, "error", err)
		return s.text("bot_error")
	}
	return s.text("bot_unlinked")
}
