package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure. Pass a constraint name to match a specific index; the empty
// string matches any duplicate-key error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") {
		// GORM sometimes surfaces the constraint without the standard
		// duplicate-key prefix when wrapping driver errors.
		if constraintName == "" || !strings.Contains(msg, constraintName) {
			return false
		}
		return true
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(msg, constraintName)
}
