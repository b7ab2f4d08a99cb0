package cli

import (
	"fmt"
	"strings"
)

// replInput is one parsed repl line: positional args plus --key[=value]
// flags. A flag given without a value is treated as boolean true.
type replInput struct {
	args  []string
	flags map[string]string
}

func parseReplInput(line string) replInput {
	input := replInput{
		args:  []string{},
		flags: map[string]string{},
	}

	for i, field := range strings.Fields(line) {
		if i > 0 && strings.HasPrefix(field, "--") {
			key, value, _ := strings.Cut(field[2:], "=")
			input.flags[key] = value
		} else {
			input.args = append(input.args, field)
		}
	}

	return input
}

func (r replInput) boolFlag(key string) bool {
	value, ok := r.flags[key]
	return ok && (value == "" || value == "true")
}

// check validates the arg count and rejects flags outside the allowed
// set.
func (r replInput) check(minArgs int, maxArgs int, allowedFlags ...string) error {
	if len(r.args) < minArgs || len(r.args) > maxArgs {
		if minArgs == maxArgs {
			return fmt.Errorf("expected %d args, got %d", minArgs, len(r.args))
		}
		return fmt.Errorf(
			"expected between %d and %d args, got %d",
			minArgs,
			maxArgs,
			len(r.args),
		)
	}

	for key := range r.flags {
		allowed := false
		for _, name := range allowedFlags {
			if key == name {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("flag %q not recognized", key)
		}
	}

	return nil
}
