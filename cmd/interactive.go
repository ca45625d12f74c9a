package cmd

import (
	"errors"
	"os"

	"golang.org/x/term"

	"filekit/pkg/prompt"
)

var errNoTerminal = errors.New("interactive mode requires a terminal on stdin")

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// askInteractively shows a prompt form, refusing when stdin is not a terminal.
func askInteractively(title string, items ...prompt.Item) (map[string]string, error) {
	if !stdinIsTerminal() {
		return nil, errNoTerminal
	}
	return prompt.Form(title, items...)
}
