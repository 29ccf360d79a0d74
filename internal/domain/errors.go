package domain

import "errors"

// ErrProblemNotFound indicates the requested problem does not exist on the server.
var ErrProblemNotFound = errors.New("problem not found")
