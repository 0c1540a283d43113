package domain

// PersonID is the external identifier of a directory entry (a UUID string).
type PersonID string
