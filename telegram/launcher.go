// Package telegram runs the chat bot that opens the web mini-app.
package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
)

const welcomeText = "🌟 Welcome to Earn Chain! 🌟\n\nClick ads to earn rewards and build your fortune!"

// Registrar creates a user the first time they talk to the bot.
type Registrar interface {
	Register(ctx context.Context, userID int64) (bool, error)
}

type messageSender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
}

type Launcher struct {
	webAppURL string
	users     Registrar
}

func NewLauncher(webAppURL string, users Registrar) *Launcher {
	return &Launcher{webAppURL: webAppURL, users: users}
}

// StartMessage is the reply to /start: a greeting with one Web App button.
func (l *Launcher) StartMessage(chatID int64) *tgbot.SendMessageParams {
	return &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   welcomeText,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: "🔗 Start Earning Now", WebApp: &models.WebAppInfo{URL: l.webAppURL}}},
			},
		},
	}
}

func (l *Launcher) handleStart(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	l.onStart(ctx, b, update)
}

func (l *Launcher) onStart(ctx context.Context, sender messageSender, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if msg.From != nil {
		if _, err := l.users.Register(ctx, msg.From.ID); err != nil {
			logrus.WithField("user_id", msg.From.ID).Errorf("🤖 Bot failed to register user: %v", err)
		}
	}

	if _, err := sender.SendMessage(ctx, l.StartMessage(msg.Chat.ID)); err != nil {
		logrus.WithField("chat_id", msg.Chat.ID).Errorf("🤖 Bot Error: %v", err)
	}
}

// Run long-polls Telegram until ctx is cancelled.
func Run(ctx context.Context, token string, l *Launcher) error {
	b, err := tgbot.New(token, tgbot.WithDefaultHandler(func(context.Context, *tgbot.Bot, *models.Update) {}))
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, l.handleStart)

	logrus.Info("🤖 Earn Chain Bot is running...")
	b.Start(ctx)
	return nil
}
