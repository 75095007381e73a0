package event

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a random version-4 UUID in canonical 8-4-4-4-12 form. It
// fails if the platform's secure random source is unavailable rather than
// degrade to a predictable value.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("event: generate id: %w", err)
	}
	return id.String(), nil
}
