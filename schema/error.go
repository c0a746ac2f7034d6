package schema

// Error reports a malformed description document. Entry names the
// offending declaration, field path, or file so the CLI can point at the
// schema location that failed.
type Error struct {
	Entry  string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Entry == "" {
		return "schema: " + e.Reason
	}
	return "schema: " + e.Entry + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Cause }
