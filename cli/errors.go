package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
)

var (
	ErrConfigNotFound = errors.New(heredoc.Doc(`
	Config file not found. Loading from defaults...

	Run "encoded config init" to initialize a new configuration file
	Run "encoded help environment" for more information.

	Alternatively, make an "encoded.yaml" file in the current directory from the example given
`))
)
