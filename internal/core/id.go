package core

import (
	"github.com/google/uuid"
)

// NewSessionID generates a unique identifier for a debate session.
func NewSessionID() string {
	return uuid.NewString()
}
