package clinical

import "errors"

// ErrNoResult is returned when the arithmetic of a calculator produced a
// non-finite value. Callers render it as "no result".
var ErrNoResult = errors.New("no result")

// NotApplicableError indicates that the given algorithm is not applicable
// for the requested patient. It would be inappropriate to return a score.
// Suggest names the calculator the caller should redirect to, if any.
type NotApplicableError struct {
	Reason  string
	Suggest string
}

func NewNotApplicableError(reason, suggest string) *NotApplicableError {
	return &NotApplicableError{Reason: reason, Suggest: suggest}
}

func (e *NotApplicableError) Error() string {
	if e.Suggest != "" {
		return e.Reason + "; use " + e.Suggest
	}
	return e.Reason
}

// IsNotApplicable reports whether err carries a NotApplicableError.
func IsNotApplicable(err error) bool {
	var na *NotApplicableError
	return errors.As(err, &na)
}
