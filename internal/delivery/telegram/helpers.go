package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// parseIndex parses a zero-based question index.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseAddArgs splits "prompt | answer" on the last separator so prompts may contain "|".
func parseAddArgs(args string) (prompt, answer string, ok bool) {
	i := strings.LastIndex(args, "|")
	if i < 0 {
		return "", "", false
	}
	prompt = strings.TrimSpace(args[:i])
	answer = strings.TrimSpace(args[i+1:])
	if prompt == "" || answer == "" {
		return "", "", false
	}
	return prompt, answer, true
}

// parseCheckArgs splits "N attempt..." into the index and the attempt text.
func parseCheckArgs(args string) (index int, attempt string, ok bool) {
	head, tail, found := strings.Cut(strings.TrimSpace(args), " ")
	if !found {
		return 0, "", false
	}
	index, ok = parseIndex(head)
	if !ok {
		return 0, "", false
	}
	attempt = strings.TrimSpace(tail)
	if attempt == "" {
		return 0, "", false
	}
	return index, attempt, true
}

// parseGrantTarget accepts a raw identity or a bare Telegram user ID.
func parseGrantTarget(args string) (entities.Identity, bool) {
	id, ok := entities.ParseIdentity(args)
	if !ok {
		return "", false
	}
	if userID, err := strconv.ParseInt(id.String(), 10, 64); err == nil {
		return entities.TelegramIdentity(userID), true
	}
	return id, true
}
