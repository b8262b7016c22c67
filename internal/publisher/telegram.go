package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram publishes deals as photo posts to a channel. Constructing the
// client performs the getMe call, so a bad token fails here, before any
// storefront is fetched.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

func NewTelegram(token string, chatID int64, logger *slog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}

	logger.Info("telegram publisher ready", "bot", bot.Self.UserName, "chat_id", chatID)

	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

// PublishImage posts the image with the caption and returns the message
// id. Errors are classified into the package taxonomy: 429 (or any
// retry-after hint) maps to ErrRateLimited, auth errors to ErrFatal,
// everything else stays transient.
func (t *Telegram) PublishImage(_ context.Context, image []byte, caption string) (string, error) {
	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{
		Name:  "deal.jpg",
		Bytes: image,
	})
	photo.Caption = caption

	msg, err := t.bot.Send(photo)
	if err != nil {
		return "", classify(err)
	}

	t.logger.Debug("photo posted", "message_id", msg.MessageID)
	return strconv.Itoa(msg.MessageID), nil
}

func classify(err error) error {
	if apiErr, ok := err.(*tgbotapi.Error); ok {
		switch {
		case apiErr.Code == 429 || apiErr.RetryAfter > 0:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %s", ErrFatal, apiErr.Message)
		}
	}
	return fmt.Errorf("send photo: %w", err)
}
