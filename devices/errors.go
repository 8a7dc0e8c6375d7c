package devices

import "strings"

// ErrorSet collects the failures of several devices during a lifecycle
// transition. Each entry is prefixed with the failing device's ID.
type ErrorSet []error

func (e ErrorSet) Len() int { return len(e) }

// Append adds the non-nil errors to the set.
func (e *ErrorSet) Append(args ...error) {
	for _, err := range args {
		if err != nil {
			*e = append(*e, err)
		}
	}
}

// Err returns the set as an error, or nil if it is empty.
func (e ErrorSet) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Unwrap exposes the entries to errors.Is and errors.As.
func (e ErrorSet) Unwrap() []error {
	return e
}

// Error lists one failure per line.
func (e ErrorSet) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}
