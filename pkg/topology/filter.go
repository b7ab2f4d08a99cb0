package topology

import (
	"fmt"
	"regexp"
	"strings"
)

// Wildcard matches every topic.
const Wildcard = "*"

// Filter selects topics by name. Supported expressions:
//
//   - "*" matches all topics
//   - a comma-separated list matches topics containing any of the tokens
//     as a substring
//   - anything else is treated as an unanchored regular expression
//
// A plain string without regex metacharacters therefore behaves as a
// substring match in both of the latter modes.
type Filter struct {
	expr       string
	substrings []string
	regex      *regexp.Regexp
}

// NewFilter parses the argument expression into a Filter. An invalid
// regular expression is a recoverable input error; callers should report
// it and re-prompt.
func NewFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("filter expression cannot be empty")
	}

	filter := &Filter{expr: expr}

	if expr == Wildcard {
		return filter, nil
	}

	if strings.Contains(expr, ",") {
		for _, token := range strings.Split(expr, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				filter.substrings = append(filter.substrings, token)
			}
		}
		if len(filter.substrings) == 0 {
			return nil, fmt.Errorf("filter expression %q contains no usable tokens", expr)
		}
		return filter, nil
	}

	regex, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid topic filter regex %q: %v", expr, err)
	}
	filter.regex = regex

	return filter, nil
}

// MatchAll returns a filter that matches every topic.
func MatchAll() *Filter {
	return &Filter{expr: Wildcard}
}

// String returns the original filter expression.
func (f *Filter) String() string {
	return f.expr
}

// Matches returns whether the argument topic name is selected by the
// filter.
func (f *Filter) Matches(name string) bool {
	if f.expr == Wildcard {
		return true
	}

	if len(f.substrings) > 0 {
		for _, token := range f.substrings {
			if strings.Contains(name, token) {
				return true
			}
		}
		return false
	}

	return f.regex.MatchString(name)
}

// SelectTopics returns the topics in the snapshot selected by the filter,
// in snapshot order. An empty result is not an error here; callers decide
// whether zero matches is fatal, a warning, or grounds for a re-prompt.
func (f *Filter) SelectTopics(snapshot Snapshot) []TopicInfo {
	selected := []TopicInfo{}

	for _, topic := range snapshot.Topics() {
		if f.Matches(topic.Name) {
			selected = append(selected, topic)
		}
	}

	return selected
}
