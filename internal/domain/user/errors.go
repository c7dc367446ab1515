package user

import "errors"

var (
	ErrInvalidRole  = errors.New("role must be admin, technician or club")
	ErrClubRequired = errors.New("club users must belong to a club")
)
