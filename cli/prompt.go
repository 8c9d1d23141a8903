// Package cli holds the interactive bits of the eepsort binary.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/eepsort/envutil"
	"github.com/manifoldco/promptui"
)

// ErrNegativeValue is returned by ValidateValues for values below zero.
var ErrNegativeValue = errors.New("values must not be negative")

// ValidateValues checks a comma-separated list the way the prompt does:
// every entry must parse as an integer and none may be negative.
func ValidateValues(input string) error {
	values, err := envutil.ParseInt64List(input)
	if err != nil {
		return fmt.Errorf("invalid list: %w", err)
	}

	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeValue, v)
		}
	}

	return nil
}

// PromptValues asks for a comma-separated list of non-negative integers on
// stdin, re-asking until the input is valid.
func PromptValues(label string) ([]int64, error) {
	return promptValues(label, os.Stdin, os.Stdout)
}

func promptValues(label string, in io.ReadCloser, out io.WriteCloser) ([]int64, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: ValidateValues,
		Stdin:    in,
		Stdout:   out,
	}

	txt, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	return envutil.ParseInt64List(txt)
}
