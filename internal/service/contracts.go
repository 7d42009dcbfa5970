package service

import (
	"context"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// OwnerRepository persists the identity that created the registry.
type OwnerRepository interface {
	GetOwner(ctx context.Context) (entities.Identity, error)
	SetOwner(ctx context.Context, owner entities.Identity) error
}

// ActorRepository persists the identity to role mapping.
type ActorRepository interface {
	GetRole(ctx context.Context, id entities.Identity) (entities.Role, error)
	PutRole(ctx context.Context, id entities.Identity, role entities.Role) error
}

// QuestionRepository persists the append-only question ledger.
type QuestionRepository interface {
	Append(ctx context.Context, q entities.Question) (int, error)
	GetByIndex(ctx context.Context, index int) (entities.Question, error)
	Count(ctx context.Context) (int, error)
}

// Transactor runs fn inside the store's commit boundary. A non-nil error from fn
// discards every write fn made.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores groups the repositories backing one registry.
type Stores struct {
	Owners    OwnerRepository
	Actors    ActorRepository
	Questions QuestionRepository
}
