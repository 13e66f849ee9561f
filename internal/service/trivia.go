package service

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/triviahub/trivia-api/internal/domain"
)

// PageSize is the number of questions per listing page
const PageSize = 10

// TriviaService implements the question and category business rules
type TriviaService struct {
	questions  domain.QuestionRepository
	categories domain.CategoryRepository

	// pick returns a uniform random index in [0, n). Injected so the
	// quiz selection is testable; defaults to the shared math/rand
	// source, which is safe for concurrent requests.
	pick func(n int) int
}

// NewTriviaService creates a new trivia service
func NewTriviaService(questions domain.QuestionRepository, categories domain.CategoryRepository) *TriviaService {
	return &TriviaService{
		questions:  questions,
		categories: categories,
		pick:       rand.Intn,
	}
}

// WithPicker overrides the random index source. Used by tests.
func (s *TriviaService) WithPicker(pick func(n int) int) *TriviaService {
	s.pick = pick
	return s
}

// Categories returns the category mapping (stringified id to name)
func (s *TriviaService) Categories(ctx context.Context) (map[string]string, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CategoryMap(categories), nil
}

// QuestionPage is one page of the question listing
type QuestionPage struct {
	Questions       []domain.Question
	TotalQuestions  int
	Categories      map[string]string
	CurrentCategory string
}

// QuestionPage returns the page-th (1-based) window of ten questions,
// along with the unsliced total and the full category mapping.
// CurrentCategory is the category name of the first question on the
// page, mirroring the contract the web client expects.
func (s *TriviaService) QuestionPage(ctx context.Context, page int) (*QuestionPage, error) {
	all, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start < 0 || start >= len(all) {
		return nil, ErrPageOutOfRange
	}
	if end > len(all) {
		end = len(all)
	}
	sliced := all[start:end]

	return &QuestionPage{
		Questions:       sliced,
		TotalQuestions:  len(all),
		Categories:      categories,
		CurrentCategory: categories[strconv.Itoa(sliced[0].Category)],
	}, nil
}

// DeleteQuestion removes a question by id. Returns
// domain.ErrQuestionNotFound when no such question exists, which also
// covers the loser of a concurrent delete race.
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int) error {
	return s.questions.Delete(ctx, id)
}

// CreateQuestion inserts a new question after verifying that its
// category references an existing row. The reference check is explicit
// rather than left to a foreign-key failure.
func (s *TriviaService) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if _, err := s.categories.GetByID(ctx, question.Category); err != nil {
		return err
	}
	return s.questions.Create(ctx, question)
}

// QuestionSet is a non-paginated question result, as returned by search
// and category-scoped listing
type QuestionSet struct {
	Questions       []domain.Question
	TotalQuestions  int
	CurrentCategory string
}

// SearchQuestions returns all questions containing the term,
// case-insensitively. Zero matches is reported as ErrNoMatches.
func (s *TriviaService) SearchQuestions(ctx context.Context, term string) (*QuestionSet, error) {
	matches, err := s.questions.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoMatches
	}

	category, err := s.categories.GetByID(ctx, matches[0].Category)
	if err != nil {
		return nil, err
	}

	return &QuestionSet{
		Questions:       matches,
		TotalQuestions:  len(matches),
		CurrentCategory: category.Type,
	}, nil
}

// QuestionsByCategory returns all questions for a category id. An empty
// result is reported as ErrEmptyCategory; a dangling category id as
// domain.ErrCategoryNotFound.
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int) (*QuestionSet, error) {
	questions, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptyCategory
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	return &QuestionSet{
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: category.Type,
	}, nil
}

// NextQuizQuestion picks a uniform random question outside the previous
// set, scoped to a category when categoryID is nonzero. A nil question
// with a nil error means the pool is exhausted, which is a normal
// outcome for the quiz flow.
func (s *TriviaService) NextQuizQuestion(ctx context.Context, categoryID int, previous []int) (*domain.Question, error) {
	candidates, err := s.questions.ListCandidates(ctx, categoryID, previous)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	question := candidates[s.pick(len(candidates))]
	return &question, nil
}
