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

// OwnerRepository provides access to the single registry owner row.
type OwnerRepository struct {
	db postgres.DBTX
}

// NewOwnerRepository creates a new OwnerRepository with the provided database handle.
func NewOwnerRepository(db postgres.DBTX) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// GetOwner returns the stored owner identity.
func (r *OwnerRepository) GetOwner(ctx context.Context) (entities.Identity, error) {
	query := `SELECT identity FROM registry_owner WHERE id`

	var owner string
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storeerrs.ErrOwnerNotSet
		}
		return "", fmt.Errorf("get owner: %w", err)
	}

	return entities.Identity(owner), nil
}

// SetOwner stores the owner. It fails with ErrOwnerAlreadySet when one exists.
func (r *OwnerRepository) SetOwner(ctx context.Context, owner entities.Identity) error {
	query := `
		INSERT INTO registry_owner (id, identity)
		VALUES (TRUE, $1)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, owner.String())
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storeerrs.ErrOwnerAlreadySet
	}

	return nil
}
