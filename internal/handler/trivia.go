package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/triviahub/trivia-api/internal/domain"
	"github.com/triviahub/trivia-api/internal/service"
	"github.com/triviahub/trivia-api/internal/validation"
)

// TriviaHandler handles question, category and quiz HTTP requests
type TriviaHandler struct {
	trivia   *service.TriviaService
	validate *validator.Validate
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(trivia *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{
		trivia:   trivia,
		validate: validator.New(),
	}
}

// Register registers the trivia routes
func (h *TriviaHandler) Register(e *echo.Echo) {
	e.GET("/categories", h.GetCategories)
	e.GET("/categories/:id/questions", h.GetCategoryQuestions)
	e.GET("/questions", h.ListQuestions)
	e.POST("/questions", h.CreateQuestion)
	e.DELETE("/questions/:id", h.DeleteQuestion)
	e.POST("/questions/search", h.SearchQuestions)
	e.POST("/quizzes", h.NextQuizQuestion)
}

// CategoriesResponse maps stringified category ids to display names
type CategoriesResponse struct {
	Categories map[string]string `json:"categories"`
	Success    bool              `json:"success"`
}

// GetCategories handles listing all categories
func (h *TriviaHandler) GetCategories(c echo.Context) error {
	categories, err := h.trivia.Categories(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Categories: categories,
		Success:    true,
	})
}

// QuestionListResponse is one page of the question listing
type QuestionListResponse struct {
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      map[string]string `json:"categories"`
	CurrentCategory string            `json:"current_category"`
	Success         bool              `json:"success"`
}

// ListQuestions handles the paginated question listing
func (h *TriviaHandler) ListQuestions(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	result, err := h.trivia.QuestionPage(c.Request().Context(), page)
	if err != nil {
		if errors.Is(err, service.ErrPageOutOfRange) {
			return errorJSON(c, http.StatusNotFound)
		}
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, QuestionListResponse{
		Questions:       result.Questions,
		TotalQuestions:  result.TotalQuestions,
		Categories:      result.Categories,
		CurrentCategory: result.CurrentCategory,
		Success:         true,
	})
}

// DeleteQuestion handles question deletion. A missing question yields
// 400, which is also what the loser of a concurrent delete race sees.
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	if err := h.trivia.DeleteQuestion(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return errorJSON(c, http.StatusBadRequest)
		}
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CreateQuestionRequest is the body for creating a question. Category
// and difficulty are raw so digit strings coerce the same as numbers.
type CreateQuestionRequest struct {
	Question   string          `json:"question" validate:"required"`
	Answer     string          `json:"answer" validate:"required"`
	Difficulty json.RawMessage `json:"difficulty"`
	Category   json.RawMessage `json:"category"`
}

// CreateQuestion handles question creation
func (h *TriviaHandler) CreateQuestion(c echo.Context) error {
	var req CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	categoryID, err := validation.CoerceInt(req.Category)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}
	difficulty, err := validation.CoerceInt(req.Difficulty)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	question := domain.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: difficulty,
		Category:   categoryID,
	}
	if err := h.trivia.CreateQuestion(c.Request().Context(), &question); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return errorJSON(c, http.StatusBadRequest)
		}
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// SearchRequest is the body for the question search
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// QuestionSetResponse is a non-paginated question result
type QuestionSetResponse struct {
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory string            `json:"current_category"`
	Success         bool              `json:"success"`
}

// SearchQuestions handles case-insensitive substring search over
// question text
func (h *TriviaHandler) SearchQuestions(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	result, err := h.trivia.SearchQuestions(c.Request().Context(), req.SearchTerm)
	if err != nil {
		if errors.Is(err, service.ErrNoMatches) {
			return errorJSON(c, http.StatusNotFound)
		}
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, QuestionSetResponse{
		Questions:       result.Questions,
		TotalQuestions:  result.TotalQuestions,
		CurrentCategory: result.CurrentCategory,
		Success:         true,
	})
}

// GetCategoryQuestions handles the category-scoped question listing
func (h *TriviaHandler) GetCategoryQuestions(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound)
	}

	result, err := h.trivia.QuestionsByCategory(c.Request().Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCategory) || errors.Is(err, domain.ErrCategoryNotFound) {
			return errorJSON(c, http.StatusNotFound)
		}
		return errorJSON(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, QuestionSetResponse{
		Questions:       result.Questions,
		TotalQuestions:  result.TotalQuestions,
		CurrentCategory: result.CurrentCategory,
		Success:         true,
	})
}

// QuizRequest is the body for the next-quiz-question selection.
// PreviousQuestions is a pointer so a missing field is distinguishable
// from an empty list and rejected.
type QuizRequest struct {
	QuizCategory struct {
		ID json.RawMessage `json:"id"`
	} `json:"quiz_category"`
	PreviousQuestions *[]int `json:"previous_questions"`
}

// QuizResponse carries either the chosen question or false when the
// candidate pool is exhausted
type QuizResponse struct {
	Question any  `json:"question"`
	Success  bool `json:"success"`
}

// NextQuizQuestion handles picking a random question outside the
// client-supplied previous set, optionally scoped to a category
func (h *TriviaHandler) NextQuizQuestion(c echo.Context) error {
	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	categoryID, err := validation.CoerceInt(req.QuizCategory.ID)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest)
	}
	if req.PreviousQuestions == nil {
		return errorJSON(c, http.StatusBadRequest)
	}

	question, err := h.trivia.NextQuizQuestion(c.Request().Context(), categoryID, *req.PreviousQuestions)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError)
	}

	// An exhausted pool is a normal end-of-quiz signal, not an error
	if question == nil {
		return c.JSON(http.StatusOK, QuizResponse{Question: false, Success: true})
	}
	return c.JSON(http.StatusOK, QuizResponse{Question: question, Success: true})
}
