package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/infra/postgres"
	storeerrs "github.com/aliskhannn/quiz-registry/internal/repository"
)

// ActorRepository provides access to granted roles in the database.
type ActorRepository struct {
	db postgres.DBTX
}

// NewActorRepository creates a new ActorRepository with the provided database handle.
func NewActorRepository(db postgres.DBTX) *ActorRepository {
	return &ActorRepository{db: db}
}

// GetRole returns the role granted to id.
func (r *ActorRepository) GetRole(ctx context.Context, id entities.Identity) (entities.Role, error) {
	query := `SELECT role FROM actors WHERE identity = $1`

	var name string
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, id.String()).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storeerrs.ErrActorNotFound
		}
		return 0, fmt.Errorf("get role: %w", err)
	}

	role, err := entities.ParseRole(name)
	if err != nil {
		return 0, fmt.Errorf("get role: %w", err)
	}

	return role, nil
}

// PutRole inserts or overwrites the role of id.
func (r *ActorRepository) PutRole(ctx context.Context, id entities.Identity, role entities.Role) error {
	if !role.Valid() {
		return fmt.Errorf("put role: invalid role %s", role)
	}

	query := `
		INSERT INTO actors (identity, role)
		VALUES ($1, $2)
		ON CONFLICT (identity) DO UPDATE
		SET role = EXCLUDED.role,
		    updated_at = now()
	`

	_, err := postgres.Conn(ctx, r.db).Exec(ctx, query, id.String(), role.String())
	if err != nil {
		return fmt.Errorf("put role: %w", err)
	}

	return nil
}
