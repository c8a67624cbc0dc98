package user

import (
	"errors"
	"fmt"
)

var (
	ErrNoUserInformation = errors.New("no user information")
)

type InvalidError struct {
	UUID string
}

func (e InvalidError) Error() string {
	return fmt.Sprintf("invalid user uuid \"%s\"", e.UUID)
}
