package telegram

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// handleAdd appends a question and removes the command message, which holds the plaintext answer.
func (h *Handler) handleAdd(caller entities.Identity, args string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		prompt, answer, ok := parseAddArgs(args)
		if !ok {
			h.send(newHTMLMessage(chatID, msgUseAdd))
			return nil
		}

		err := h.registry.AddQuestion(ctx, caller, prompt, answer)
		h.deleteMessage(chatID, messageID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, msgQuestionAdded+"\n"+msgAnswerHidden))
		return nil
	}
}

// handleGrant grants the Educator role to the target identity.
func (h *Handler) handleGrant(caller entities.Identity, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		target, ok := parseGrantTarget(args)
		if !ok {
			h.send(newHTMLMessage(chatID, msgUseGrant))
			return nil
		}

		if err := h.registry.GrantEducator(ctx, caller, target); err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, fmt.Sprintf(msgGranted, html.EscapeString(target.String()))))
		return nil
	}
}

// handleGet shows a question prompt and its answer digest.
func (h *Handler) handleGet(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args == "" {
			h.send(newHTMLMessage(chatID, msgUseGet))
			return nil
		}
		index, ok := parseIndex(args)
		if !ok {
			h.send(newHTMLMessage(chatID, msgIncorrectIndex))
			return nil
		}

		q, err := h.registry.Get(ctx, index)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatQuestion(index, q)))
		return nil
	}
}

// handleCheck verifies an answer attempt.
func (h *Handler) handleCheck(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		index, attempt, ok := parseCheckArgs(args)
		if !ok {
			h.send(newHTMLMessage(chatID, msgUseCheck))
			return nil
		}

		if _, err := h.registry.CheckAnswer(ctx, index, attempt); err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, msgCorrectAnswer))
		return nil
	}
}

func (h *Handler) handleCount() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		n, err := h.registry.Count(ctx)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatCount(n)))
		return nil
	}
}

func (h *Handler) handleWhoAmI(caller entities.Identity) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		role, ok, err := h.registry.RoleOf(ctx, caller)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatWhoAmI(caller, role, ok)))
		return nil
	}
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Warn("failed to delete message with answer",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}
