package application

import "errors"

// ErrForbidden means the caller may not act on the application.
var ErrForbidden = errors.New("forbidden")
