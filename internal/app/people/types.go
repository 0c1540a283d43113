package people

import "github.com/Overland-East-Bay/people-directory/internal/domain"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type RegisterInput struct {
	// Name is raw "Family, Given" text; it is canonicalized before storage.
	Name  string
	Email *string
}

type UpdateInput struct {
	Name  Optional[string] // cannot be null
	Email Optional[string] // may be null
}

// Page is one slice of the name-ordered directory. NextAfter is the canonical
// name to pass as `after` for the following page; empty when there is none.
type Page struct {
	People    []domain.Person
	NextAfter string
}
