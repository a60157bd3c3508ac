package model

import "github.com/maxbolgarin/errm"

// Sentinel errors classifying hosting API failures. Only ErrAuth stops a
// whole analysis run; everything else degrades the single page or commit
// it affected.
var (
	// ErrAuth means the server rejected the credential (401/403).
	// Continuing per-commit would waste quota and mask the problem.
	ErrAuth = errm.New("authentication failed")

	// ErrNotFound means the repository or commit does not exist (404),
	// which usually indicates a wrong repo slug rather than a transient
	// fault.
	ErrNotFound = errm.New("resource not found")

	// ErrMalformedResponse means the body was not the JSON shape the
	// dialect expects. Treated like a transport fault for the unit.
	ErrMalformedResponse = errm.New("malformed response")
)
