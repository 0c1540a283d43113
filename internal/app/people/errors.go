package people

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Unwrap exposes the underlying cause (e.g. personname.ErrInvalidFormat) to errors.Is.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}
