package models

import "github.com/google/uuid"

// newID returns the primary key assigned to rows created without one
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
