package search

import (
	"fmt"
	"strings"
)

// InvalidTypeError lists every requested type the registry does not know.
type InvalidTypeError struct {
	Types []string
}

func (err InvalidTypeError) Error() string {
	return fmt.Sprintf("Invalid type: %s", strings.Join(err.Types, ", "))
}

// StoreError wraps failures of the backing search store.
type StoreError struct {
	Op     string
	Index  string
	ESCode string
	Err    error
}

func (err StoreError) Error() string {
	var s strings.Builder
	s.WriteString("search store error: ")
	if err.Op != "" {
		s.WriteString(err.Op + ": ")
	}
	if err.Index != "" {
		s.WriteString("index '" + err.Index + "': ")
	}
	if err.ESCode != "" {
		s.WriteString("elasticsearch code '" + err.ESCode + "': ")
	}
	s.WriteString(err.Err.Error())
	return s.String()
}

func (err StoreError) Unwrap() error {
	return err.Err
}
