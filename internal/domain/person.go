package domain

import (
	"time"

	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

// Person is a directory entry. Name is unique across the directory and is the
// ordering key for listings.
type Person struct {
	ID   PersonID
	Name personname.PersonName

	// Email is optional contact metadata; nil means unset.
	Email *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
