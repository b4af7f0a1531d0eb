// Package validation rejects malformed or unsafe identifiers before they are
// used to address documents in the spec repository.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/actionspec-io/spec-hub/pkg/log"
)

const (
	// MaxIdentifierLen bounds customer and environment identifiers.
	MaxIdentifierLen = 50

	// MaxInstanceNameLen bounds instance names, which end up in resource tags.
	MaxInstanceNameLen = 30
)

var identifierRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Error describes a rejected identifier.
type Error struct {
	// Field is the name of the rejected input ("customer", "environment", ...).
	Field string

	// Reason is a safe, user-facing description of the failure.
	Reason string

	// Traversal marks inputs that look like path traversal probes rather than
	// plain format mistakes. Callers surface these distinctly.
	Traversal bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Identifier validates a path-addressing identifier (customer, environment).
// Allowed: 1-50 characters from [A-Za-z0-9_-].
func Identifier(value, field string) error {
	if err := checkTraversal(value, field); err != nil {
		return err
	}

	if value == "" || len(value) > MaxIdentifierLen {
		return &Error{Field: field, Reason: fmt.Sprintf("must be 1-%d characters", MaxIdentifierLen)}
	}

	if !identifierRE.MatchString(value) {
		return &Error{Field: field, Reason: "contains invalid characters (use a-z, A-Z, 0-9, -, _ only)"}
	}

	return nil
}

// InstanceName validates a workload instance name. Stricter than Identifier:
// 1-30 characters, and it must not start or end with a hyphen.
func InstanceName(value string) error {
	const field = "instance_name"

	if err := checkTraversal(value, field); err != nil {
		return err
	}

	if value == "" || len(value) > MaxInstanceNameLen {
		return &Error{Field: field, Reason: fmt.Sprintf("must be 1-%d characters", MaxInstanceNameLen)}
	}

	if !identifierRE.MatchString(value) {
		return &Error{Field: field, Reason: "contains invalid characters (use a-z, A-Z, 0-9, -, _ only)"}
	}

	if strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") {
		return &Error{Field: field, Reason: "cannot start or end with hyphen"}
	}

	return nil
}

// checkTraversal rejects the traversal markers explicitly, even though the
// character-set rule already excludes them. Failing here classifies the input
// as a probe, which is logged at elevated severity for the audit trail.
func checkTraversal(value, field string) error {
	if strings.Contains(value, "..") ||
		strings.ContainsAny(value, `/\`) ||
		strings.ContainsRune(value, 0) {
		log.Warn("Path traversal attempt detected", "field", field, "value", value)
		return &Error{Field: field, Reason: "contains path traversal attempt", Traversal: true}
	}

	return nil
}

// IsTraversal reports whether err marks a traversal-classified validation failure.
func IsTraversal(err error) bool {
	ve, ok := err.(*Error)
	return ok && ve.Traversal
}
