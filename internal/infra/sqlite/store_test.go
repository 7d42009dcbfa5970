package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOwnerIsSetOnce(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	_, err := store.GetOwner(ctx)
	assert.ErrorIs(t, err, repository.ErrOwnerNotSet)

	require.NoError(t, store.SetOwner(ctx, "alice"))
	assert.ErrorIs(t, store.SetOwner(ctx, "bob"), repository.ErrOwnerAlreadySet)

	owner, err := store.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Identity("alice"), owner)
}

func TestPutRoleOverwrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	_, err := store.GetRole(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrActorNotFound)

	require.NoError(t, store.PutRole(ctx, "alice", entities.RoleUser))
	require.NoError(t, store.PutRole(ctx, "alice", entities.RoleEducator))

	role, err := store.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleEducator, role)

	assert.Error(t, store.PutRole(ctx, "bob", entities.Role(0)))
}

func TestQuestionsAreAppendOnly(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	prompts := []string{"What color is the sky?", "2 + 2?", "Capital of France?"}
	for i, p := range prompts {
		idx, err := store.Append(ctx, entities.Question{Prompt: p, AnswerDigest: entities.Digest{byte(i)}})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	for i, p := range prompts {
		q, err := store.GetByIndex(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, p, q.Prompt)
		assert.Equal(t, entities.Digest{byte(i)}, q.AnswerDigest)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(prompts), n)

	_, err = store.GetByIndex(ctx, len(prompts))
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := store.Append(ctx, entities.Question{Prompt: "discarded"}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := store.Append(ctx, entities.Question{Prompt: "kept"})
		return err
	}))

	q, err := store.GetByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "kept", q.Prompt)
}
