package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds returned (wrapped in *MatchError) by every Resolver.
var (
	// ErrEmptyInput means the input was blank after trimming.
	ErrEmptyInput = errors.New("zone name cannot be empty")
	// ErrNoMatch means no zone name was close enough to the input.
	ErrNoMatch = errors.New("no matching zone")
	// ErrAmbiguous means more than one zone name matched the input.
	ErrAmbiguous = errors.New("ambiguous zone name")
)

// MatchError describes a failed resolution.
// Use errors.Is against the Err* kinds to classify it.
type MatchError struct {
	// Input is the text the caller tried to resolve.
	Input string
	// Kind is one of ErrEmptyInput, ErrNoMatch, ErrAmbiguous.
	Kind error
	// Candidates are suggestions (NoMatch) or the competing names (Ambiguous).
	Candidates []string
}

// Error returns the user-facing message for the failure.
func (e *MatchError) Error() string {
	switch e.Kind {
	case ErrEmptyInput:
		return "Zone name cannot be empty. Please provide a valid zone name."
	case ErrAmbiguous:
		return fmt.Sprintf("Ambiguous matches for '%s': %s", e.Input, strings.Join(e.Candidates, ", "))
	default:
		msg := fmt.Sprintf("No sufficiently close matches found for '%s'.", e.Input)
		if len(e.Candidates) > 0 {
			msg += " Did you mean: " + strings.Join(e.Candidates, ", ") + "?"
		}
		return msg
	}
}

// Unwrap returns the failure kind.
func (e *MatchError) Unwrap() error {
	return e.Kind
}

func emptyInput(input string) error {
	return &MatchError{Input: input, Kind: ErrEmptyInput}
}
