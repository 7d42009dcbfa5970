package telegram

import (
	"context"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// RegistryService is the registry surface the bot exposes.
type RegistryService interface {
	AddQuestion(ctx context.Context, caller entities.Identity, prompt, answer string) error
	GrantEducator(ctx context.Context, caller, target entities.Identity) error
	Get(ctx context.Context, index int) (entities.Question, error)
	CheckAnswer(ctx context.Context, index int, attempt string) (bool, error)
	Count(ctx context.Context) (int, error)
	RoleOf(ctx context.Context, id entities.Identity) (entities.Role, bool, error)
}
