package personname

import "errors"

// ErrInvalidFormat is matched (via errors.Is) by every *InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid person name format")

// InvalidFormatError reports text that does not satisfy the name grammar.
// Input is the text exactly as the caller supplied it.
type InvalidFormatError struct {
	Input string
}

func (e *InvalidFormatError) Error() string {
	if e == nil {
		return ""
	}
	return `invalid input syntax for type PersonName: "` + e.Input + `"`
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}
