package models

import "fmt"

// ValidationError describes a business-rule violation on a single entity.
type ValidationError struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %d: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

func invalid(entity string, id int64, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, ID: id, Field: field, Reason: reason}
}
