// Package memory provides in-memory repository implementations. They back
// the service and handler tests, which exercise the full HTTP surface
// without a running Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/triviahub/trivia-api/internal/domain"
)

// QuestionRepository is an in-memory domain.QuestionRepository
type QuestionRepository struct {
	mu        sync.RWMutex
	nextID    int
	questions map[int]domain.Question

	// Err, when set, is returned by every method. Lets tests exercise
	// the storage-failure paths.
	Err error
}

// NewQuestionRepository creates an empty in-memory question repository
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{
		nextID:    1,
		questions: make(map[int]domain.Question),
	}
}

// Seed inserts questions as-is, keeping their ids
func (r *QuestionRepository) Seed(questions ...domain.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range questions {
		r.questions[q.ID] = q
		if q.ID >= r.nextID {
			r.nextID = q.ID + 1
		}
	}
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.collect(func(domain.Question) bool { return true })
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	return r.collect(func(q domain.Question) bool { return q.Category == categoryID })
}

func (r *QuestionRepository) Search(ctx context.Context, term string) ([]domain.Question, error) {
	term = strings.ToLower(term)
	return r.collect(func(q domain.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	})
}

func (r *QuestionRepository) ListCandidates(ctx context.Context, categoryID int, excluded []int) ([]domain.Question, error) {
	skip := make(map[int]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	return r.collect(func(q domain.Question) bool {
		if categoryID != 0 && q.Category != categoryID {
			return false
		}
		return !skip[q.ID]
	})
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	question.ID = r.nextID
	r.nextID++
	r.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *QuestionRepository) collect(keep func(domain.Question) bool) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var questions []domain.Question
	for _, q := range r.questions {
		if keep(q) {
			questions = append(questions, q)
		}
	}
	// id order, matching the Postgres repositories
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}
