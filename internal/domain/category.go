package domain

import (
	"context"
	"errors"
	"strconv"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category-related operations.
// Categories are pre-seeded and read-only for this service.
type CategoryRepository interface {
	// List retrieves all categories ordered by id
	List(ctx context.Context) ([]Category, error)

	// GetByID retrieves a category by its id
	GetByID(ctx context.Context, id int) (*Category, error)
}

// Category represents a named grouping for questions
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// CategoryMap builds the wire representation of a category list: a
// mapping from stringified id to display name.
func CategoryMap(categories []Category) map[string]string {
	m := make(map[string]string, len(categories))
	for _, c := range categories {
		m[strconv.Itoa(c.ID)] = c.Type
	}
	return m
}
