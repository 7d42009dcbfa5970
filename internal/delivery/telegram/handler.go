package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Commands registered with Telegram on startup.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Запустить бота"},
	{Command: "get", Description: "Показать вопрос (использование: /get 0)"},
	{Command: "check", Description: "Проверить ответ (использование: /check 0 ответ)"},
	{Command: "count", Description: "Количество вопросов"},
	{Command: "whoami", Description: "Ваш идентификатор и роль"},
	{Command: "add", Description: "Добавить вопрос (использование: /add вопрос | ответ)"},
	{Command: "grant", Description: "Выдать роль преподавателя"},
	{Command: "help", Description: "Помощь"},
}

type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	registry RegistryService
}

func NewHandler(bot BotAPI, logger *zap.Logger, registry RegistryService) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		registry: registry,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	caller := entities.TelegramIdentity(msg.From.ID)

	if !msg.IsCommand() {
		h.send(newHTMLMessage(chatID, msgHelp))
		return
	}

	// Message text is not logged: /add and /check carry answers.
	h.logger.Debug("command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", msg.Command()),
	)

	args := msg.CommandArguments()

	switch msg.Command() {
	case "start":
		h.send(newHTMLMessage(chatID, msgWelcome))

	case "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	case "add":
		_ = h.withErrorHandling(h.handleAdd(caller, args, msg.MessageID))(ctx, chatID)

	case "grant":
		_ = h.withErrorHandling(h.handleGrant(caller, args))(ctx, chatID)

	case "get":
		_ = h.withErrorHandling(h.handleGet(args))(ctx, chatID)

	case "check":
		_ = h.withErrorHandling(h.handleCheck(args))(ctx, chatID)

	case "count":
		_ = h.withErrorHandling(h.handleCount())(ctx, chatID)

	case "whoami":
		_ = h.withErrorHandling(h.handleWhoAmI(caller))(ctx, chatID)

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
