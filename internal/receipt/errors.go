package receipt

import (
	"errors"
	"fmt"
)

// Kind identifies why a receipt could not be turned into a record.
type Kind string

const (
	KindUnreadable      Kind = "unreadable"
	KindMissingProvider Kind = "missing_provider"
	KindMissingAmount   Kind = "missing_amount"
	KindMissingDate     Kind = "missing_date"
	KindMalformedAmount Kind = "malformed_amount"
	KindMalformedDate   Kind = "malformed_date"
)

// ErrExtraction matches every *ExtractionError via errors.Is.
var ErrExtraction = errors.New("extraction failed")

// ExtractionError reports a receipt whose fields could not be recovered.
type ExtractionError struct {
	Kind  Kind
	Field string
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Kind)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrExtraction) true for any extraction failure.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// KindOf returns the extraction kind carried by err, or "" if err is not an
// extraction failure.
func KindOf(err error) Kind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
