package utils

import "github.com/google/uuid"

// GenerateUUID returns a random (v4) UUID string.
func GenerateUUID() string {
	return uuid.NewString()
}

// ShortID returns the first block of a UUID for log lines and directory names.
func ShortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
