package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/log"
)

// Kind classifies a service failure for transport-level mapping.
type Kind string

const (
	// KindValidation covers rejected client input.
	KindValidation Kind = "validation"
	// KindNotFound covers lookups for pods that do not exist.
	KindNotFound Kind = "not_found"
	// KindMalformed covers spec documents that exist but cannot be parsed.
	KindMalformed Kind = "malformed"
	// KindRemoteUnavailable covers remote repository outages and exhausted
	// rate limits.
	KindRemoteUnavailable Kind = "remote_unavailable"
	// KindConflict covers concurrent-write precondition failures.
	KindConflict Kind = "conflict"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Error is the classified failure type returned by the service layer.
type Error struct {
	Kind     Kind
	Op       string
	Identity model.PodIdentity
	Detail   string

	// RetryAfter is set for remote_unavailable errors when the remote told
	// us when capacity returns.
	RetryAfter time.Duration

	// Suggestions lists near-miss identities for not_found errors.
	Suggestions []string

	err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Detail)
	if e.Identity.Customer != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Identity)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.err }

// NewError builds a classified error. A nil cause is allowed.
func NewError(kind Kind, op string, id model.PodIdentity, detail string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Identity: id, Detail: detail, err: cause}
}

// Classify extracts the Kind from err, defaulting to internal for
// unclassified failures. It logs the failure exactly once, at a severity
// matching the kind, so transports only translate.
func Classify(err error) *Error {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = &Error{Kind: KindInternal, Op: "unknown", Detail: err.Error(), err: err}
	}

	fields := []any{"kind", string(ce.Kind), "op", ce.Op}
	if ce.Identity.Customer != "" {
		fields = append(fields, "pod", ce.Identity.String())
	}

	switch ce.Kind {
	case KindValidation, KindNotFound, KindConflict:
		log.Warn(ce.Detail, fields...)
	default:
		log.Error(err, ce.Detail, fields...)
	}
	return ce
}
