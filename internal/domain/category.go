package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for Category.
var (
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name must be at most 100 characters long")
)

// MaxCategoryNameLength bounds the name column.
const MaxCategoryNameLength = 100

// Category labels tasks. Categories with a nil CreatedBy are system defaults
// visible to every user; the rest are private to their creator.
type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

// NewCategory creates a Category owned by the given user. The ID is assigned
// by the database on insert.
func NewCategory(name string, createdBy uuid.UUID) (*Category, error) {
	category := &Category{
		Name:      name,
		CreatedBy: &createdBy,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrEmptyCategoryName
	}

	if len(c.Name) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}

	return nil
}

// IsSystemDefault reports whether the category is a shared system default.
func (c *Category) IsSystemDefault() bool {
	return c.CreatedBy == nil
}

// IsCreatedBy reports whether the given user created the category.
// System defaults belong to no one.
func (c *Category) IsCreatedBy(userID uuid.UUID) bool {
	return c.CreatedBy != nil && *c.CreatedBy == userID
}
