package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
)

// Host runs registry calls one at a time, each inside the store's transaction.
// Registry error kinds are returned after commit; any other error rolls back.
type Host struct {
	mu       sync.Mutex
	registry *QuizRegistry
	tx       Transactor
	logger   *zap.Logger
}

// NewHost wraps an existing registry.
func NewHost(registry *QuizRegistry, tx Transactor, logger *zap.Logger) *Host {
	return &Host{
		registry: registry,
		tx:       tx,
		logger:   logger,
	}
}

// Bootstrap opens the registry persisted in stores, or creates it with owner
// when the stores are empty.
func Bootstrap(
	ctx context.Context,
	tx Transactor,
	stores Stores,
	owner entities.Identity,
	logger *zap.Logger,
	opts ...Option,
) (*Host, error) {
	var registry *QuizRegistry

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := Open(ctx, stores, opts...)
		if err == nil {
			registry = r
			return nil
		}
		if !errors.Is(err, ErrNotInitialized) {
			return err
		}
		if owner == "" {
			return ErrNotInitialized
		}

		r, err = Create(ctx, owner, stores, opts...)
		if err != nil {
			return err
		}
		logger.Info("registry created", zap.String("owner", owner.String()))
		registry = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if owner != "" && owner != registry.Owner() {
		logger.Warn("configured owner differs from persisted owner, keeping persisted",
			zap.String("configured", owner.String()),
			zap.String("persisted", registry.Owner().String()),
		)
	}

	return NewHost(registry, tx, logger), nil
}

func (h *Host) run(ctx context.Context, fn func(ctx context.Context) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result error
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		result = fn(ctx)
		if result != nil && !IsKind(result) {
			return result
		}
		return nil
	})
	if err != nil {
		return err
	}

	return result
}

// Owner returns the registry owner.
func (h *Host) Owner() entities.Identity {
	return h.registry.Owner()
}

// AddQuestion appends a question on behalf of caller.
func (h *Host) AddQuestion(ctx context.Context, caller entities.Identity, prompt, answer string) error {
	err := h.run(ctx, func(ctx context.Context) error {
		return h.registry.AddQuestion(ctx, caller, prompt, answer)
	})
	if err == nil {
		h.logger.Info("question added", zap.String("caller", caller.String()))
	}
	return err
}

// GrantEducator grants target the Educator role on behalf of caller.
func (h *Host) GrantEducator(ctx context.Context, caller, target entities.Identity) error {
	return h.run(ctx, func(ctx context.Context) error {
		return h.registry.GrantEducator(ctx, caller, target)
	})
}

// Get returns the question at index.
func (h *Host) Get(ctx context.Context, index int) (entities.Question, error) {
	var q entities.Question
	err := h.run(ctx, func(ctx context.Context) error {
		var err error
		q, err = h.registry.Get(ctx, index)
		return err
	})
	return q, err
}

// CheckAnswer verifies attempt against the question at index.
func (h *Host) CheckAnswer(ctx context.Context, index int, attempt string) (bool, error) {
	var ok bool
	err := h.run(ctx, func(ctx context.Context) error {
		var err error
		ok, err = h.registry.CheckAnswer(ctx, index, attempt)
		return err
	})
	return ok, err
}

// Count returns the number of questions.
func (h *Host) Count(ctx context.Context) (int, error) {
	var n int
	err := h.run(ctx, func(ctx context.Context) error {
		var err error
		n, err = h.registry.Count(ctx)
		return err
	})
	return n, err
}

// RoleOf returns the role granted to id.
func (h *Host) RoleOf(ctx context.Context, id entities.Identity) (entities.Role, bool, error) {
	var (
		role entities.Role
		ok   bool
	)
	err := h.run(ctx, func(ctx context.Context) error {
		var err error
		role, ok, err = h.registry.RoleOf(ctx, id)
		return err
	})
	return role, ok, err
}

// AuditReport is a point-in-time view of the registry invariants.
type AuditReport struct {
	Owner           entities.Identity
	OwnerIsEducator bool
	Questions       int
}

// Audit reads the owner role and question count in one transaction.
func (h *Host) Audit(ctx context.Context) (AuditReport, error) {
	report := AuditReport{Owner: h.registry.Owner()}
	err := h.run(ctx, func(ctx context.Context) error {
		role, ok, err := h.registry.RoleOf(ctx, report.Owner)
		if err != nil {
			return err
		}
		report.OwnerIsEducator = ok && role == entities.RoleEducator

		report.Questions, err = h.registry.Count(ctx)
		return err
	})
	return report, err
}
