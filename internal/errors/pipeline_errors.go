package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against the fatal pipeline errors.
var (
	ErrDataIntegrity  = errors.New("data integrity violation")
	ErrPivotConflict  = errors.New("pivot conflict")
	ErrHeaderMismatch = errors.New("header mismatch")
)

// DataIntegrityError is returned when a normalized postcode maps to more
// than one distinct area in the reference geography.
type DataIntegrityError struct {
	Postcode  string
	AreaCodes []string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("postcode %q maps to multiple areas: %s", e.Postcode, strings.Join(e.AreaCodes, ", "))
}

// Is matches ErrDataIntegrity.
func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// PivotConflictError is returned when a variable has more than one
// observation for the same area and category.
type PivotConflictError struct {
	Variable string
	AreaCode string
	Category string
}

func (e *PivotConflictError) Error() string {
	return fmt.Sprintf("variable %q has duplicate observations for area %q, category %q", e.Variable, e.AreaCode, e.Category)
}

// Is matches ErrPivotConflict.
func (e *PivotConflictError) Is(target error) bool {
	return target == ErrPivotConflict
}

// HeaderMismatchError signals a header that does not line up with the table
// it labels. It is a defect upstream, not a data problem.
type HeaderMismatchError struct {
	HeaderLength int
	ColumnCount  int
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header has %d labels but table has %d columns", e.HeaderLength, e.ColumnCount)
}

// Is matches ErrHeaderMismatch.
func (e *HeaderMismatchError) Is(target error) bool {
	return target == ErrHeaderMismatch
}

// Fatal reports whether err is one of the errors that must abort a run
// before any output is written.
func Fatal(err error) bool {
	return errors.Is(err, ErrDataIntegrity) || errors.Is(err, ErrPivotConflict) || errors.Is(err, ErrHeaderMismatch)
}
