package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

// QuizStorage provides in-memory storage for the registry owner, roles and questions.
type QuizStorage struct {
	mu        sync.RWMutex
	owner     entities.Identity
	actors    map[entities.Identity]entities.Role
	questions []entities.Question
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		actors: make(map[entities.Identity]entities.Role),
	}
}

// WithinTx runs fn directly. Registry calls perform at most one write, after
// all checks, so there is nothing to roll back.
func (s *QuizStorage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// GetOwner returns the stored owner.
func (s *QuizStorage) GetOwner(_ context.Context) (entities.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == "" {
		return "", repository.ErrOwnerNotSet
	}
	return s.owner, nil
}

// SetOwner stores the owner once.
func (s *QuizStorage) SetOwner(_ context.Context, owner entities.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != "" {
		return repository.ErrOwnerAlreadySet
	}
	s.owner = owner
	return nil
}

// GetRole returns the role granted to id.
func (s *QuizStorage) GetRole(_ context.Context, id entities.Identity) (entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.actors[id]
	if !ok {
		return 0, repository.ErrActorNotFound
	}
	return role, nil
}

// PutRole inserts or overwrites the role of id.
func (s *QuizStorage) PutRole(_ context.Context, id entities.Identity, role entities.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[id] = role
	return nil
}

// Append adds q at the next index and returns that index.
func (s *QuizStorage) Append(_ context.Context, q entities.Question) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, q)
	return len(s.questions) - 1, nil
}

// GetByIndex returns a copy of the question at index.
func (s *QuizStorage) GetByIndex(_ context.Context, index int) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.questions) {
		return entities.Question{}, repository.ErrQuestionNotFound
	}
	return s.questions[index], nil
}

// Count returns the number of stored questions.
func (s *QuizStorage) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}
