package tsgen

import (
	"errors"
	"fmt"

	"github.com/reoring/tsgen/internal/gen"
	"github.com/reoring/tsgen/internal/ident"
	"github.com/reoring/tsgen/internal/typegraph"
	"github.com/reoring/tsgen/schema"
)

// Pipeline failure codes (exported consts so callers can switch on
// CodeOf instead of matching message text).
const (
	CodeSchema         = "schema_error"
	CodeUnresolvedType = "unresolved_type"
	CodeSupertypeCycle = "supertype_cycle"
	CodeDuplicateIdent = "duplicate_identifier"
	CodeUnknownTarget  = "unknown_target"
)

// Error decorates a pipeline failure with its code and the input it
// belongs to. The wrapped error keeps the stage-specific detail.
type Error struct {
	Code    string
	Subject string // file path or document name, empty when not file-bound
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("tsgen: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("tsgen: %s: %s: %v", e.Code, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf classifies err by the typed pipeline error it wraps. Errors
// from outside the pipeline yield the empty string.
func CodeOf(err error) string {
	var (
		coded      *Error
		schemaErr  *schema.Error
		unresolved *typegraph.UnresolvedError
		cycle      *typegraph.CycleError
		dup        *ident.DuplicateError
		target     *gen.UnknownTargetError
	)
	switch {
	case errors.As(err, &coded):
		return coded.Code
	case errors.As(err, &schemaErr):
		return CodeSchema
	case errors.As(err, &unresolved):
		return CodeUnresolvedType
	case errors.As(err, &cycle):
		return CodeSupertypeCycle
	case errors.As(err, &dup):
		return CodeDuplicateIdent
	case errors.As(err, &target):
		return CodeUnknownTarget
	}
	return ""
}

// pipeErr attaches code and subject to a pipeline error. Errors that
// are already classified, or that the taxonomy does not know, pass
// through unchanged.
func pipeErr(subject string, err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	code := CodeOf(err)
	if code == "" {
		return err
	}
	return &Error{Code: code, Subject: subject, Err: err}
}
