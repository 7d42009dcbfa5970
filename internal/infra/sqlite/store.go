// Package sqlite provides a SQLite-backed registry state store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/infra/sqlite/migrations"
	"github.com/aliskhannn/quiz-registry/internal/repository"
)

// Store persists the registry owner, roles and questions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// WithinTx runs fn in a transaction carried by ctx and commits when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.sqlDB
}

// GetOwner returns the stored owner identity.
func (s *Store) GetOwner(ctx context.Context) (entities.Identity, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var owner string
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT identity FROM registry_owner WHERE id = 1`).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrOwnerNotSet
		}
		return "", fmt.Errorf("get owner: %w", err)
	}
	return entities.Identity(owner), nil
}

// SetOwner stores the owner once.
func (s *Store) SetOwner(ctx context.Context, owner entities.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(
		ctx,
		`INSERT INTO registry_owner (id, identity, created_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		owner.String(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	if n == 0 {
		return repository.ErrOwnerAlreadySet
	}
	return nil
}

// GetRole returns the role granted to id.
func (s *Store) GetRole(ctx context.Context, id entities.Identity) (entities.Role, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var name string
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT role FROM actors WHERE identity = ?`, id.String()).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrActorNotFound
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
func (s *Store) PutRole(ctx context.Context, id entities.Identity, role entities.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("put role: invalid role %s", role)
	}

	_, err := s.conn(ctx).ExecContext(
		ctx,
		`INSERT INTO actors (identity, role, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (identity) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at`,
		id.String(),
		role.String(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put role: %w", err)
	}
	return nil
}

// Append inserts q at the next free index and returns that index.
func (s *Store) Append(ctx context.Context, q entities.Question) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var idx int64
	err := s.conn(ctx).QueryRowContext(
		ctx,
		`INSERT INTO questions (idx, prompt, answer_digest, created_at)
		 SELECT COALESCE(MAX(idx) + 1, 0), ?, ?, ? FROM questions
		 RETURNING idx`,
		q.Prompt,
		q.AnswerDigest[:],
		time.Now().UTC().UnixMilli(),
	).Scan(&idx)
	if err != nil {
		return 0, fmt.Errorf("append question: %w", err)
	}
	return int(idx), nil
}

// GetByIndex returns the question stored at index.
func (s *Store) GetByIndex(ctx context.Context, index int) (entities.Question, error) {
	if err := ctx.Err(); err != nil {
		return entities.Question{}, err
	}

	var (
		q      entities.Question
		digest []byte
	)
	err := s.conn(ctx).QueryRowContext(
		ctx,
		`SELECT prompt, answer_digest FROM questions WHERE idx = ?`,
		int64(index),
	).Scan(&q.Prompt, &digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Question{}, repository.ErrQuestionNotFound
		}
		return entities.Question{}, fmt.Errorf("get question: %w", err)
	}

	q.AnswerDigest, err = entities.DigestFromBytes(digest)
	if err != nil {
		return entities.Question{}, fmt.Errorf("get question %d: %w", index, err)
	}
	return q, nil
}

// Count returns the number of stored questions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return int(n), nil
}
