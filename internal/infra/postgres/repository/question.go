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

// QuestionRepository provides access to the question ledger in the database.
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository with the provided database handle.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Append inserts q at the next free index and returns that index.
func (r *QuestionRepository) Append(ctx context.Context, q entities.Question) (int, error) {
	query := `
		INSERT INTO questions (idx, prompt, answer_digest)
		SELECT COALESCE(MAX(idx) + 1, 0), $1, $2
		FROM questions
		RETURNING idx
	`

	var idx int64
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, q.Prompt, q.AnswerDigest[:]).Scan(&idx)
	if err != nil {
		return 0, fmt.Errorf("append question: %w", err)
	}

	return int(idx), nil
}

// GetByIndex returns the question stored at index.
func (r *QuestionRepository) GetByIndex(ctx context.Context, index int) (entities.Question, error) {
	query := `SELECT prompt, answer_digest FROM questions WHERE idx = $1`

	var (
		q      entities.Question
		digest []byte
	)
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, int64(index)).Scan(&q.Prompt, &digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Question{}, storeerrs.ErrQuestionNotFound
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
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM questions`

	var n int64
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}

	return int(n), nil
}
