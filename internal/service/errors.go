package service

import "errors"

// Common service errors
var (
	ErrPageOutOfRange = errors.New("page is out of range")
	ErrNoMatches      = errors.New("no questions match the search term")
	ErrEmptyCategory  = errors.New("category has no questions")
)
