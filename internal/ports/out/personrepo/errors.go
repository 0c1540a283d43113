package personrepo

import "errors"

var (
	// ErrNotFound indicates the requested person does not exist.
	ErrNotFound = errors.New("person not found")

	// ErrAlreadyExists indicates a person already exists with the provided ID.
	ErrAlreadyExists = errors.New("person already exists")

	// ErrNameTaken indicates another person already holds an equal name.
	ErrNameTaken = errors.New("person name already taken")
)
