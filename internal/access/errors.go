package access

import "errors"

// ErrCreationFailed matches every *CreationFailedError via errors.Is.
var ErrCreationFailed = errors.New("access control creation failed")

// CreationFailedError is returned when the authority does not produce a
// handle. Description is the authority's diagnostic text, or empty when it
// supplied none.
type CreationFailedError struct {
	Description string
}

func (e *CreationFailedError) Error() string {
	if e.Description == "" {
		return ErrCreationFailed.Error()
	}
	return ErrCreationFailed.Error() + ": " + e.Description
}

// Is reports whether target is ErrCreationFailed.
func (e *CreationFailedError) Is(target error) bool {
	return target == ErrCreationFailed
}
