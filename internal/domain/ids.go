package domain

import "github.com/google/uuid"

// IsID reports whether s is a well-formed record id. Malformed ids are
// treated as missing records by the services, never as validation errors.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
