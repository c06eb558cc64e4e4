package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-errors"
)

// CommandFunc runs a command for the acting character and returns the text
// shown to them.
type CommandFunc func(ctx context.Context, in *Input) (string, error)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string
	Required bool
	Rest     bool // If true, captures all remaining input
}

// Command is one verb the handler understands.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Help    string
	Inputs  []InputSpec
	Func    CommandFunc
}

func (c *Command) Validate() error {
	el := errors.NewErrorList()
	if c.Name == "" {
		el.Add(fmt.Errorf("command name is required"))
	}
	if c.Func == nil {
		el.Add(fmt.Errorf("command %q: func is required", c.Name))
	}
	for i, input := range c.Inputs {
		if input.Name == "" {
			el.Add(fmt.Errorf("input %d: name is required", i))
		}
		// Only the last input can have rest=true
		if input.Rest && i != len(c.Inputs)-1 {
			el.Add(fmt.Errorf("input %q: only the last input can have rest=true", input.Name))
		}
	}
	return el.Err()
}

// Input is a parsed command invocation.
type Input struct {
	Actor *game.Character
	Verb  string
	Args  map[string]string
}

// Arg returns the named input, or "" when it was not given.
func (in *Input) Arg(name string) string {
	return in.Args[name]
}

// parseArgs matches words against specs.
func parseArgs(specs []InputSpec, words []string) (map[string]string, error) {
	required := 0
	for _, spec := range specs {
		if spec.Required {
			required++
		}
	}

	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(words) > len(specs) {
		return nil, NewUserErrorf("Expected at most %d argument(s), got %d.", len(specs), len(words))
	}

	args := make(map[string]string, len(specs))
	idx := 0
	for _, spec := range specs {
		if idx >= len(words) {
			if spec.Required {
				return nil, NewUserErrorf("Missing %s.", spec.Name)
			}
			continue
		}

		if spec.Rest {
			args[spec.Name] = strings.Join(words[idx:], " ")
			idx = len(words)
		} else {
			args[spec.Name] = words[idx]
			idx++
		}
	}
	return args, nil
}
