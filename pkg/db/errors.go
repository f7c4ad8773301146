package db

import "strings"

// IsUniqueViolation reports whether err is a unique constraint failure from
// postgres or sqlite. A non-empty constraintName narrows the match to that
// constraint (postgres) or column (sqlite).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
