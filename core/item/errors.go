package item

import (
	"errors"
	"fmt"
)

var ErrEmptyRegistry = errors.New("no types registered")

type DuplicateTypeError struct {
	Name string
	Key  string
}

func (e DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %q: name or alias %q is already registered", e.Name, e.Key)
}
