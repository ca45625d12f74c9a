// Package prompt collects command settings interactively in the terminal.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C or Ctrl+D).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) ||
		errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted for consistent handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Item is one field of a Form.
type Item struct {
	Key      string
	Label    string
	Default  string
	Validate func(string) error
}

// run asks a single question. Replaced in tests.
var run = func(p *promptui.Prompt) (string, error) {
	return p.Run()
}

// Form asks for every item in order and returns the answers keyed by
// Item.Key. An empty answer keeps the item's default. Aborting any question
// aborts the whole form with ErrAborted.
func Form(title string, items ...Item) (map[string]string, error) {
	if title != "" {
		fmt.Println(promptui.Styler(promptui.FGBold)(title))
	}

	answers := make(map[string]string, len(items))
	for _, item := range items {
		p := &promptui.Prompt{
			Label:     item.Label,
			Default:   item.Default,
			AllowEdit: true,
			Validate:  item.Validate,
		}

		result, err := run(p)
		if err != nil {
			return nil, wrapError(err)
		}

		result = strings.TrimSpace(result)
		if result == "" {
			result = item.Default
		}
		answers[item.Key] = result
	}
	return answers, nil
}

// Required rejects blank answers.
func Required(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

// PositiveInt accepts whole numbers greater than zero.
func PositiveInt(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("must be a valid integer")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

// SplitList splits a comma or whitespace separated answer, dropping blanks.
func SplitList(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
