package personrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

// Person is the persistence shape used by the person repository.
// It is an internal record, not an HTTP DTO.
type Person struct {
	ID   domain.PersonID
	Name personname.PersonName
	// Email is optional; nil means unset.
	Email *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted people.
//
// Ordering expectations:
//   - List and ListByFamily return results in personname.Compare order (byte-wise on the
//     canonical name). Postgres gets this from the "C" collation on the name column.
//   - Names are unique under personname.Equal.
type Repository interface {
	Create(ctx context.Context, p Person) error
	Update(ctx context.Context, p Person) error
	Delete(ctx context.Context, id domain.PersonID) error

	GetByID(ctx context.Context, id domain.PersonID) (Person, error)
	// GetByName is an equality lookup; it is what a hash index serves.
	GetByName(ctx context.Context, name personname.PersonName) (Person, error)

	// List returns up to limit people whose names sort strictly after `after`
	// (keyset pagination). A zero `after` starts from the beginning; limit <= 0 means no limit.
	List(ctx context.Context, after personname.PersonName, limit int) ([]Person, error)

	// ListByFamily returns every person whose family part equals family exactly.
	ListByFamily(ctx context.Context, family string) ([]Person, error)
}
