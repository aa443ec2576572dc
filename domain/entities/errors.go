package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigation - target URL unreachable within the driver timeout
	ErrNavigation = errors.New("navigation failed")
	// ErrElementNotFound - no resolution strategy matched an element
	ErrElementNotFound = errors.New("element not found")
	// ErrTimeout - a load or readiness predicate never became true
	ErrTimeout = errors.New("timed out")
	// ErrAction - the element exists but the action could not be applied
	ErrAction = errors.New("action failed")
)

// Strategy names the resolution path an interaction went through
type Strategy string

const (
	StrategySemantic   Strategy = "semantic"
	StrategyStructural Strategy = "structural"
)

// ResolutionError is returned when both resolution strategies of a logical
// element failed. It unwraps to the structural failure, which decides the
// outcome; the semantic failure is kept for the message.
type ResolutionError struct {
	Page       string
	Element    string
	Semantic   error
	Structural error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Semantic == nil:
		return fmt.Sprintf("%s: %s: %v", e.Page, e.Element, e.Structural)
	case e.Structural == nil:
		return fmt.Sprintf("%s: %s: %v", e.Page, e.Element, e.Semantic)
	default:
		return fmt.Sprintf("%s: %s: semantic: %v; structural: %v", e.Page, e.Element, e.Semantic, e.Structural)
	}
}

func (e *ResolutionError) Unwrap() error {
	if e.Structural != nil {
		return e.Structural
	}
	return e.Semantic
}
