package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

// QuizRegistry owns the question ledger and checks permissions around it.
// It is not safe for concurrent use; Host serializes calls.
type QuizRegistry struct {
	access    *AccessControl
	verifier  *AnswerVerifier
	questions QuestionRepository

	legacyGrantResult bool
}

// Option configures a QuizRegistry.
type Option func(*QuizRegistry)

// WithLegacyGrantResult makes GrantEducator apply the grant and still report
// ErrInvalidCaller, as the first deployed registry did.
func WithLegacyGrantResult() Option {
	return func(r *QuizRegistry) {
		r.legacyGrantResult = true
	}
}

// Create initializes a new registry owned by caller. The caller is granted the
// Educator role and the question ledger starts empty.
func Create(ctx context.Context, caller entities.Identity, stores Stores, opts ...Option) (*QuizRegistry, error) {
	if caller == "" {
		return nil, ErrEmptyIdentity
	}

	if err := stores.Owners.SetOwner(ctx, caller); err != nil {
		if errors.Is(err, repository.ErrOwnerAlreadySet) {
			return nil, ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("set owner: %w", err)
	}

	r := newRegistry(caller, stores, opts)
	if err := r.access.GrantRole(ctx, caller, entities.RoleEducator); err != nil {
		return nil, err
	}

	return r, nil
}

// Open loads a registry that was created earlier in the same stores.
func Open(ctx context.Context, stores Stores, opts ...Option) (*QuizRegistry, error) {
	owner, err := stores.Owners.GetOwner(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrOwnerNotSet) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}

	return newRegistry(owner, stores, opts), nil
}

func newRegistry(owner entities.Identity, stores Stores, opts []Option) *QuizRegistry {
	r := &QuizRegistry{
		access:    NewAccessControl(owner, stores.Actors),
		verifier:  NewAnswerVerifier(),
		questions: stores.Questions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Owner returns the identity that created the registry.
func (r *QuizRegistry) Owner() entities.Identity {
	return r.access.Owner()
}

// RoleOf returns the role granted to id, if any.
func (r *QuizRegistry) RoleOf(ctx context.Context, id entities.Identity) (entities.Role, bool, error) {
	return r.access.RoleOf(ctx, id)
}

// AddQuestion appends a question. Only Educators may call it. The answer is
// stored as its digest.
func (r *QuizRegistry) AddQuestion(ctx context.Context, caller entities.Identity, prompt, answer string) error {
	if err := r.access.EnsureRole(ctx, caller, entities.RoleEducator); err != nil {
		return err
	}

	q := entities.Question{
		Prompt:       prompt,
		AnswerDigest: r.verifier.Hash(answer),
	}
	if _, err := r.questions.Append(ctx, q); err != nil {
		return fmt.Errorf("append question: %w", err)
	}

	return nil
}

// GrantEducator grants target the Educator role. Only the owner may call it.
func (r *QuizRegistry) GrantEducator(ctx context.Context, caller, target entities.Identity) error {
	if err := r.access.EnsureOwner(caller); err != nil {
		return err
	}
	if target == "" {
		return ErrEmptyIdentity
	}

	if err := r.access.GrantRole(ctx, target, entities.RoleEducator); err != nil {
		return err
	}

	if r.legacyGrantResult {
		return ErrInvalidCaller
	}
	return nil
}

// Get returns a copy of the question at index.
func (r *QuizRegistry) Get(ctx context.Context, index int) (entities.Question, error) {
	if index < 0 {
		return entities.Question{}, ErrQuestionDoesntExist
	}

	q, err := r.questions.GetByIndex(ctx, index)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return entities.Question{}, ErrQuestionDoesntExist
		}
		return entities.Question{}, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}

// CheckAnswer returns true when attempt matches the stored answer. A mismatch
// is reported as ErrWrongAnswer, never as a false result.
func (r *QuizRegistry) CheckAnswer(ctx context.Context, index int, attempt string) (bool, error) {
	q, err := r.Get(ctx, index)
	if err != nil {
		return false, err
	}

	if !r.verifier.Matches(q.AnswerDigest, attempt) {
		return false, ErrWrongAnswer
	}
	return true, nil
}

// Count returns the number of questions in the ledger.
func (r *QuizRegistry) Count(ctx context.Context) (int, error) {
	n, err := r.questions.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
