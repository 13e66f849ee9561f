package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triviahub/trivia-api/internal/domain"
	"github.com/triviahub/trivia-api/internal/handler"
	"github.com/triviahub/trivia-api/internal/repository/memory"
	"github.com/triviahub/trivia-api/internal/service"
)

type fixture struct {
	e          *echo.Echo
	questions  *memory.QuestionRepository
	categories *memory.CategoryRepository
	service    *service.TriviaService
}

// newFixture wires the handlers to in-memory repositories seeded with
// three categories and fifteen questions: ids 1-6 in Science, 7-12 in
// Art, 13-15 in Geography.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	questions := memory.NewQuestionRepository()
	categories := memory.NewCategoryRepository()
	categories.Seed(
		domain.Category{ID: 1, Type: "Science"},
		domain.Category{ID: 2, Type: "Art"},
		domain.Category{ID: 3, Type: "Geography"},
	)
	for id := 1; id <= 6; id++ {
		questions.Seed(domain.Question{
			ID:       id,
			Question: fmt.Sprintf("Science question %d", id),
			Answer:   fmt.Sprintf("Answer %d", id),
			Category: 1, Difficulty: 2,
		})
	}
	for id := 7; id <= 12; id++ {
		questions.Seed(domain.Question{
			ID:       id,
			Question: fmt.Sprintf("Art question %d", id),
			Answer:   fmt.Sprintf("Answer %d", id),
			Category: 2, Difficulty: 3,
		})
	}
	for id := 13; id <= 15; id++ {
		questions.Seed(domain.Question{
			ID:       id,
			Question: fmt.Sprintf("Geography question %d", id),
			Answer:   fmt.Sprintf("Answer %d", id),
			Category: 3, Difficulty: 1,
		})
	}

	svc := service.NewTriviaService(questions, categories)
	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	handler.NewTriviaHandler(svc).Register(e)

	return &fixture{e: e, questions: questions, categories: categories, service: svc}
}

func (f *fixture) request(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func assertErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	assert.Equal(t, code, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(code), body["error"])
	assert.Equal(t, message, body["message"])
}

func TestGetCategories(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{
		"1": "Science",
		"2": "Art",
		"3": "Geography",
	}, body["categories"])
}

func TestGetCategoriesStorageError(t *testing.T) {
	f := newFixture(t)
	f.categories.Err = errors.New("connection refused")

	rec := f.request(t, http.MethodGet, "/categories", nil)
	assertErrorEnvelope(t, rec, http.StatusInternalServerError, "Internal Server Error")
}

func TestListQuestionsFirstPage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/questions?page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["questions"], 10)
	assert.Equal(t, float64(15), body["total_questions"])
	assert.Equal(t, "Science", body["current_category"])

	first := body["questions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Science question 1", first["question"])
	assert.Equal(t, "Answer 1", first["answer"])
}

func TestListQuestionsLastPage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/questions?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["questions"], 5)
	assert.Equal(t, float64(15), body["total_questions"])
	// page 2 starts at question 11, which is in Art
	assert.Equal(t, "Art", body["current_category"])
}

func TestListQuestionsPastLastPage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/questions?page=99999", nil)
	assertErrorEnvelope(t, rec, http.StatusNotFound, "That's an error, Page Not found")
}

func TestListQuestionsNonIntegerPage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/questions?page=lol", nil)
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestListQuestionsMissingPage(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/questions", nil)
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestListQuestionsIdempotent(t *testing.T) {
	f := newFixture(t)

	first := f.request(t, http.MethodGet, "/questions?page=1", nil)
	second := f.request(t, http.MethodGet, "/questions?page=1", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestDeleteQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodDelete, "/questions/15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	// the question is gone from subsequent listings
	list := f.request(t, http.MethodGet, "/questions?page=2", nil)
	body := decode(t, list)
	assert.Equal(t, float64(14), body["total_questions"])
	for _, q := range body["questions"].([]any) {
		assert.NotEqual(t, float64(15), q.(map[string]any)["id"])
	}

	// deleting again hits the not-found path
	again := f.request(t, http.MethodDelete, "/questions/15", nil)
	assertErrorEnvelope(t, again, http.StatusBadRequest, "This is a Bad Request")
}

func TestDeleteNonexistentQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodDelete, "/questions/0", nil)
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestCreateQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"question":   "What is the name of the galaxy we live in?",
		"answer":     "The Milky Way",
		"difficulty": 2,
		"category":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	list := f.request(t, http.MethodGet, "/questions?page=2", nil)
	assert.Equal(t, float64(16), decode(t, list)["total_questions"])
}

func TestCreateQuestionCoercesDigitStrings(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"question":   "Which planet is known as the red planet?",
		"answer":     "Mars",
		"difficulty": "2",
		"category":   "1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateQuestionNonIntegerDifficulty(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"question":   "Is Darth Vader related to Anakin Skywalker?",
		"answer":     "Yes",
		"difficulty": "lol",
		"category":   2,
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestCreateQuestionNonexistentCategory(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"question":   "Is Darth Vader related to Anakin Skywalker?",
		"answer":     "Yes",
		"difficulty": 3,
		"category":   0,
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")

	// no row was created
	list := f.request(t, http.MethodGet, "/questions?page=1", nil)
	assert.Equal(t, float64(15), decode(t, list)["total_questions"])
}

func TestCreateQuestionMissingFields(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"difficulty": 3,
		"category":   1,
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestCreateQuestionInsertError(t *testing.T) {
	f := newFixture(t)
	f.questions.Err = errors.New("disk full")

	rec := f.request(t, http.MethodPost, "/questions", map[string]any{
		"question":   "Who discovered penicillin?",
		"answer":     "Alexander Fleming",
		"difficulty": 3,
		"category":   1,
	})
	assertErrorEnvelope(t, rec, http.StatusInternalServerError, "Internal Server Error")
}

func TestSearchQuestions(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions/search", map[string]any{
		"searchTerm": "GeOgRaPhY",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["questions"], 3)
	assert.Equal(t, float64(3), body["total_questions"])
	assert.Equal(t, "Geography", body["current_category"])
}

func TestSearchQuestionsNoMatch(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/questions/search", map[string]any{
		"searchTerm": "hematology",
	})
	assertErrorEnvelope(t, rec, http.StatusNotFound, "That's an error, Page Not found")
}

func TestGetCategoryQuestions(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/categories/3/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["questions"], 3)
	assert.Equal(t, float64(3), body["total_questions"])
	assert.Equal(t, "Geography", body["current_category"])
}

func TestGetCategoryQuestionsEmpty(t *testing.T) {
	f := newFixture(t)
	f.categories.Seed(domain.Category{ID: 4, Type: "History"})

	rec := f.request(t, http.MethodGet, "/categories/4/questions", nil)
	assertErrorEnvelope(t, rec, http.StatusNotFound, "That's an error, Page Not found")
}

func TestGetCategoryQuestionsUnknownCategory(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/categories/99/questions", nil)
	assertErrorEnvelope(t, rec, http.StatusNotFound, "That's an error, Page Not found")
}

func TestQuizSingleCandidateIsDeterministic(t *testing.T) {
	f := newFixture(t)

	// Geography holds questions 13-15; with 14 and 15 already seen the
	// only possible pick is 13
	for i := 0; i < 5; i++ {
		rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
			"quiz_category":      map[string]any{"id": 3},
			"previous_questions": []int{14, 15},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		question := body["question"].(map[string]any)
		assert.Equal(t, float64(13), question["id"])
	}
}

func TestQuizNeverRepeatsPreviousQuestions(t *testing.T) {
	f := newFixture(t)

	previous := map[float64]bool{1: true, 2: true, 3: true}
	for i := 0; i < 20; i++ {
		rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
			"quiz_category":      map[string]any{"id": 1},
			"previous_questions": []int{1, 2, 3},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		question := decode(t, rec)["question"].(map[string]any)
		assert.False(t, previous[question["id"].(float64)])
		assert.Equal(t, float64(1), question["category"])
	}
}

func TestQuizCategoryZeroSpansAllCategories(t *testing.T) {
	f := newFixture(t)

	seen := map[float64]bool{}
	for i := 0; i < 200; i++ {
		rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
			"quiz_category":      map[string]any{"id": 0},
			"previous_questions": []int{},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		question := decode(t, rec)["question"].(map[string]any)
		seen[question["category"].(float64)] = true
	}
	assert.Equal(t, map[float64]bool{1: true, 2: true, 3: true}, seen)
}

func TestQuizExhaustedPool(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": 3},
		"previous_questions": []int{13, 14, 15},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["question"])
}

func TestQuizCoercesCategoryIDString(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": "3"},
		"previous_questions": []int{13, 14},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	question := decode(t, rec)["question"].(map[string]any)
	assert.Equal(t, float64(15), question["id"])
}

func TestQuizBadCategoryID(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": "abc"},
		"previous_questions": []int{},
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestQuizMissingPreviousQuestions(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category": map[string]any{"id": 1},
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestQuizMalformedPreviousQuestions(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": 1},
		"previous_questions": "not-a-list",
	})
	assertErrorEnvelope(t, rec, http.StatusBadRequest, "This is a Bad Request")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/nope", nil)
	assertErrorEnvelope(t, rec, http.StatusNotFound, "That's an error, Page Not found")
}
