package personname

import "strings"

// The accepted grammar, anchored at both ends:
//
//	name   = family "," [" "] given
//	family = token *(" " token)
//	given  = token *(" " token)
//	token  = UPPER 1*(ALPHA / "'" / "-")
//
// Matching is case-sensitive and byte-oriented (ASCII only).

type scanState uint8

const (
	// expecting the uppercase letter that opens a token
	stateTokenStart scanState = iota
	// one letter of the token consumed; at least one more is required
	stateTokenSecond
	// token is long enough; it may continue or be closed by a space, the comma or the end
	stateTokenRest
	// comma consumed; a single optional space may precede the given names
	stateAfterComma
)

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLetter(c byte) bool { return isUpper(c) || (c >= 'a' && c <= 'z') }

func isTokenByte(c byte) bool { return isLetter(c) || c == '\'' || c == '-' }

// matchGrammar reports whether s is a complete match of the name grammar.
func matchGrammar(s string) bool {
	state := stateTokenStart
	sawComma := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateAfterComma:
			if c == ' ' {
				state = stateTokenStart
				continue
			}
			if !isUpper(c) {
				return false
			}
			state = stateTokenSecond
		case stateTokenStart:
			if !isUpper(c) {
				return false
			}
			state = stateTokenSecond
		case stateTokenSecond:
			if !isTokenByte(c) {
				return false
			}
			state = stateTokenRest
		case stateTokenRest:
			switch {
			case isTokenByte(c):
			case c == ' ':
				state = stateTokenStart
			case c == ',' && !sawComma:
				sawComma = true
				state = stateAfterComma
			default:
				return false
			}
		}
	}
	return sawComma && state == stateTokenRest
}

// normalize drops the space after the first comma when it is a lone space.
// Two or more spaces are left in place so the grammar check rejects them.
func normalize(raw string) string {
	i := strings.IndexByte(raw, ',')
	if i < 0 || i+1 >= len(raw) || raw[i+1] != ' ' {
		return raw
	}
	if i+2 < len(raw) && raw[i+2] == ' ' {
		return raw
	}
	return raw[:i+1] + raw[i+2:]
}

// normalizeAndValidate returns the canonical form of raw or an
// *InvalidFormatError carrying raw unchanged.
func normalizeAndValidate(raw string) (string, error) {
	s := normalize(raw)
	if !matchGrammar(s) {
		return "", &InvalidFormatError{Input: raw}
	}
	return s, nil
}
