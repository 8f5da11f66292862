package seller

import "errors"

var (
	ErrApplicationNotFound = errors.New("seller application not found")
	ErrAlreadyPending      = errors.New("a pending application already exists")
	ErrAlreadyReviewed     = errors.New("application has already been reviewed")
)
