package domain

import "strings"

// NormalizeFamilyQuery trims leading/trailing whitespace and collapses internal whitespace runs.
// It is applied to family-name filters before they are validated against the name grammar,
// so "  Van   Der Berg " filters on "Van Der Berg".
func NormalizeFamilyQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
