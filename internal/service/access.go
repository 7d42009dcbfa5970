package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

// AccessControl decides whether an identity may perform a privileged action.
type AccessControl struct {
	owner  entities.Identity
	actors ActorRepository
}

// NewAccessControl creates an AccessControl for the given owner and role table.
func NewAccessControl(owner entities.Identity, actors ActorRepository) *AccessControl {
	return &AccessControl{
		owner:  owner,
		actors: actors,
	}
}

// Owner returns the registry owner.
func (a *AccessControl) Owner() entities.Identity {
	return a.owner
}

// EnsureRole fails with ErrInvalidCaller when id has no role and with
// ErrInvalidPowerLevel when its role is not exactly required.
func (a *AccessControl) EnsureRole(ctx context.Context, id entities.Identity, required entities.Role) error {
	role, ok, err := a.RoleOf(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCaller
	}
	if role != required {
		return ErrInvalidPowerLevel
	}

	return nil
}

// EnsureOwner fails with ErrInvalidCaller unless id is the owner.
func (a *AccessControl) EnsureOwner(id entities.Identity) error {
	if id != a.owner {
		return ErrInvalidCaller
	}
	return nil
}

// GrantRole inserts or overwrites the role of id.
func (a *AccessControl) GrantRole(ctx context.Context, id entities.Identity, role entities.Role) error {
	if err := a.actors.PutRole(ctx, id, role); err != nil {
		return fmt.Errorf("put role: %w", err)
	}
	return nil
}

// RoleOf returns the role of id. ok is false when no role was granted.
func (a *AccessControl) RoleOf(ctx context.Context, id entities.Identity) (entities.Role, bool, error) {
	role, err := a.actors.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get role: %w", err)
	}

	return role, true, nil
}
