package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

func TestQuizStorageOwner(t *testing.T) {
	ctx := context.Background()
	s := NewQuizStorage()

	_, err := s.GetOwner(ctx)
	assert.ErrorIs(t, err, repository.ErrOwnerNotSet)

	require.NoError(t, s.SetOwner(ctx, "alice"))
	assert.ErrorIs(t, s.SetOwner(ctx, "bob"), repository.ErrOwnerAlreadySet)

	owner, err := s.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Identity("alice"), owner)
}

func TestQuizStorageRoles(t *testing.T) {
	ctx := context.Background()
	s := NewQuizStorage()

	_, err := s.GetRole(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrActorNotFound)

	require.NoError(t, s.PutRole(ctx, "alice", entities.RoleUser))
	require.NoError(t, s.PutRole(ctx, "alice", entities.RoleEducator))

	role, err := s.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleEducator, role)
}

func TestQuizStorageQuestions(t *testing.T) {
	ctx := context.Background()
	s := NewQuizStorage()

	idx, err := s.Append(ctx, entities.Question{Prompt: "first"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = s.Append(ctx, entities.Question{Prompt: "second"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	q, err := s.GetByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", q.Prompt)

	// Callers get a copy.
	q.Prompt = "changed"
	q, err = s.GetByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", q.Prompt)

	for _, i := range []int{-1, 2} {
		_, err = s.GetByIndex(ctx, i)
		assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
