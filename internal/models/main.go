// Package models defines the core data structures for persons, their
// attributes and the operators who manage them.
package models

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned when credentials or a session are not valid.
	ErrUnauthorized = errors.New("unauthorized")
)

// PageInput selects one page of an ordered listing. Page is 1-based.
type PageInput struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows preceding the requested page.
func (p PageInput) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of a listing together with the total row count.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}
