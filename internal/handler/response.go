package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the fixed error envelope every failure returns,
// regardless of cause. No internal detail is ever exposed.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse is the minimal success body
type SuccessResponse struct {
	Success bool `json:"success"`
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "This is a Bad Request",
	http.StatusNotFound:            "That's an error, Page Not found",
	http.StatusInternalServerError: "Internal Server Error",
}

func errorJSON(c echo.Context, code int) error {
	message, ok := errorMessages[code]
	if !ok {
		code = http.StatusInternalServerError
		message = errorMessages[code]
	}
	return c.JSON(code, ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
	})
}

// HTTPErrorHandler renders framework-raised errors (unknown route,
// method not allowed) with the same fixed envelope as handler errors.
// Anything outside the 400/404/500 contract collapses to 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}
	switch code {
	case http.StatusBadRequest, http.StatusNotFound:
	default:
		code = http.StatusInternalServerError
	}

	if err := errorJSON(c, code); err != nil {
		c.Logger().Error(err)
	}
}
