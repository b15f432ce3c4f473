// Package triz holds the domain constants and error taxonomy shared by
// the matrix, workflow, and synthesis packages.
package triz

import "errors"

// Catalog bounds. Parameter and principle ids are contiguous and fixed
// by the classical TRIZ method; nothing in this repo grows them.
const (
	MinParameterID = 1
	MaxParameterID = 39
	MinPrincipleID = 1
	MaxPrincipleID = 40
)

var (
	// ErrOutOfRange is returned when a parameter or principle id falls
	// outside its catalog bounds.
	ErrOutOfRange = errors.New("triz: id out of range")

	// ErrDegenerate is returned when improving == worsening; a parameter
	// cannot contradict itself.
	ErrDegenerate = errors.New("triz: degenerate contradiction")

	// ErrNotFound is returned on an exact matrix lookup with no entry.
	// Callers recover via FindSimilar or SuggestReformulations; the
	// matrix never invents recommendations for an unmapped pair.
	ErrNotFound = errors.New("triz: no matrix entry for pair")

	// ErrSessionNotFound is returned when a session id is unknown to the store.
	ErrSessionNotFound = errors.New("triz: session not found")

	// ErrSessionCompleted is returned by Continue on a completed session;
	// only an explicit reset leaves the terminal stage.
	ErrSessionCompleted = errors.New("triz: session already completed")

	// ErrInsufficientInput is returned when user input is empty, or too
	// short to be a meaningful problem statement.
	ErrInsufficientInput = errors.New("triz: insufficient input")

	// ErrInsufficientPrinciples is returned by synthesis with no principles.
	ErrInsufficientPrinciples = errors.New("triz: no principles selected")

	// ErrPersistence wraps store read/write failures. The in-memory
	// session is left untouched so a caller-driven retry is safe.
	ErrPersistence = errors.New("triz: persistence failure")
)

// ValidParameterID reports whether id is a valid engineering parameter id.
func ValidParameterID(id int) bool {
	return id >= MinParameterID && id <= MaxParameterID
}

// ValidPrincipleID reports whether id is a valid inventive principle id.
func ValidPrincipleID(id int) bool {
	return id >= MinPrincipleID && id <= MaxPrincipleID
}
