package category

import "errors"

var (
	ErrEmptyName        = errors.New("category name cannot be empty")
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrCycle            = errors.New("category parent chain must not form a cycle")
)
