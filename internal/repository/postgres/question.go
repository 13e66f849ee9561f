package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/triviahub/trivia-api/internal/domain"
)

// QuestionRepository implements the domain.QuestionRepository interface
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		pool: pool,
	}
}

// List retrieves all questions ordered by id
func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, difficulty, category
		FROM questions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// ListByCategory retrieves all questions in a category ordered by id
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, difficulty, category
		FROM questions
		WHERE category = $1
		ORDER BY id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Search retrieves all questions whose text contains the term, case-insensitively
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, difficulty, category
		FROM questions
		WHERE question ILIKE '%' || $1 || '%'
		ORDER BY id
	`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// ListCandidates retrieves quiz candidates: questions outside the excluded
// set, scoped to a category when categoryID is nonzero. The random pick
// happens in the service layer, so no ORDER BY RANDOM here.
func (r *QuestionRepository) ListCandidates(ctx context.Context, categoryID int, excluded []int) ([]domain.Question, error) {
	excludedIDs := make([]int32, len(excluded))
	for i, id := range excluded {
		excludedIDs[i] = int32(id)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, difficulty, category
		FROM questions
		WHERE ($1 = 0 OR category = $1)
		  AND id <> ALL($2)
		ORDER BY id
	`, categoryID, excludedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz candidates: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// Create inserts a new question and fills in its assigned id
func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO questions (question, answer, difficulty, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		question.Question,
		question.Answer,
		question.Difficulty,
		question.Category,
	).Scan(&question.ID)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// Delete removes a question by id
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
