package errs

import "errors"

var (
	// ErrMemberNotFound indicates that a referenced member id is absent from the tree.
	ErrMemberNotFound = errors.New("member not found")
	// ErrNotificationNotFound indicates that a notification was not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidRelation indicates a relation outside the parent/child/sibling/spouse vocabulary.
	ErrInvalidRelation = errors.New("invalid relation type")
)
