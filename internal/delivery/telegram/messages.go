// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"html"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/service"
)

const (
	msgWelcome = "Это реестр вопросов викторины.\n\n" +
		"Ответы хранятся только в виде хеша, поэтому проверить ответ можно, а подсмотреть нельзя.\n\n" + msgHelp

	msgHelp = "<b>Команды</b>\n" +
		"/get N — показать вопрос N\n" +
		"/check N ответ — проверить ответ на вопрос N\n" +
		"/count — сколько вопросов в реестре\n" +
		"/whoami — ваш идентификатор и роль\n\n" +
		"<b>Для преподавателей</b>\n" +
		"/add вопрос | ответ — добавить вопрос\n" +
		"/grant ID — выдать роль преподавателя (только владелец)"
)

// Error messages.
const (
	msgUseAdd             = "Используйте: /add вопрос | ответ"
	msgUseGrant           = "Используйте: /grant ID (например, /grant 123456789)"
	msgUseGet             = "Используйте: /get N"
	msgUseCheck           = "Используйте: /check N ответ"
	msgIncorrectIndex     = "Номер вопроса должен быть целым неотрицательным числом."
	msgWrongAnswer        = "❌ Неверный ответ."
	msgQuestionDoesntExist = "Такого вопроса нет."
	msgInvalidPowerLevel  = "Недостаточно прав: нужна роль преподавателя."
	msgInvalidCaller      = "Действие недоступно для вашего аккаунта."
	msgInternalError      = "Что‑то пошло не так. Попробуйте позже."
	msgUnknownCommand     = "Неизвестная команда.\n\n" + msgHelp
)

const (
	msgCorrectAnswer = "✅ Верно!"
	msgQuestionAdded = "Вопрос добавлен."
	msgGranted       = "Роль преподавателя выдана: <code>%s</code>"
	msgAnswerHidden  = "Сообщение с ответом удалено из чата."
)

// replyForError maps a registry error kind to a user message. ok is false for
// errors that are not registry kinds.
func replyForError(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrWrongAnswer):
		return msgWrongAnswer, true
	case errors.Is(err, service.ErrQuestionDoesntExist):
		return msgQuestionDoesntExist, true
	case errors.Is(err, service.ErrInvalidPowerLevel):
		return msgInvalidPowerLevel, true
	case errors.Is(err, service.ErrInvalidCaller):
		return msgInvalidCaller, true
	default:
		return "", false
	}
}

func formatQuestion(index int, q entities.Question) string {
	return fmt.Sprintf(
		"<b>Вопрос %d</b>\n\n%s\n\n<b>Хеш ответа:</b> <code>%s</code>",
		index,
		html.EscapeString(q.Prompt),
		q.AnswerDigest,
	)
}

func formatCount(n int) string {
	return fmt.Sprintf("Вопросов в реестре: <b>%d</b>", n)
}

func formatWhoAmI(id entities.Identity, role entities.Role, ok bool) string {
	roleName := "нет роли"
	if ok {
		switch role {
		case entities.RoleEducator:
			roleName = "преподаватель"
		case entities.RoleUser:
			roleName = "пользователь"
		}
	}
	return fmt.Sprintf("<b>ID:</b> <code>%s</code>\n<b>Роль:</b> %s", html.EscapeString(id.String()), roleName)
}
