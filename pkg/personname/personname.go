package personname

import "strings"

// PersonName is a validated human name held in canonical "Family,Given" form,
// e.g. "Smith,Mary Jane". Values are immutable and safe to copy and share.
//
// The zero value is the unset name. It is not valid: IsZero reports true and
// the accessors return an *InvalidFormatError.
type PersonName struct {
	canonical string
}

// Parse validates raw and returns its canonical PersonName.
//
// A single space directly after the comma is dropped ("Doe, John" becomes
// "Doe,John"); two or more spaces there are rejected.
func Parse(raw string) (PersonName, error) {
	canonical, err := normalizeAndValidate(raw)
	if err != nil {
		return PersonName{}, err
	}
	return PersonName{canonical: canonical}, nil
}

// MustParse is like Parse but panics when raw is not a valid name.
func MustParse(raw string) PersonName {
	n, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the canonical form. It is the storage and wire representation.
func (n PersonName) String() string { return n.canonical }

func (n PersonName) IsZero() bool { return n.canonical == "" }

// split re-validates the stored form and cuts it at the comma.
func (n PersonName) split() (family, given string, err error) {
	canonical, err := normalizeAndValidate(n.canonical)
	if err != nil {
		return "", "", err
	}
	family, given, _ = strings.Cut(canonical, ",")
	return family, given, nil
}

// Family returns everything before the comma.
func (n PersonName) Family() (string, error) {
	family, _, err := n.split()
	return family, err
}

// Given returns everything after the comma, which may hold several tokens.
func (n PersonName) Given() (string, error) {
	_, given, err := n.split()
	return given, err
}

// Show renders the name for people: first given token, a space, then the family.
// "Smith,Mary Jane" shows as "Mary Smith".
func (n PersonName) Show() (string, error) {
	family, given, err := n.split()
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(given, " ")
	first = strings.TrimLeft(first, " \t\n\v\f\r")
	return first + " " + family, nil
}
