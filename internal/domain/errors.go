package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateClubName = errors.New("club name already exists")
	ErrInvalidInput      = errors.New("invalid input")
)
