package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/thread"
)

// StringArg returns a trimmed string argument or def when absent or empty.
func StringArg(args map[string]interface{}, name, def string) string {
	if v, ok := args[name].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// IntArg returns a numeric argument as int. JSON numbers arrive as float64.
func IntArg(args map[string]interface{}, name string, def int) (int, error) {
	switch v := args[name].(type) {
	case nil:
		return def, nil
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

// BoolArg returns a boolean argument or def when absent.
func BoolArg(args map[string]interface{}, name string, def bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// ParseStringOrArray parses a parameter that can be either a single string,
// a comma-separated string or an array of strings.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
	case []interface{}:
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str = strings.TrimSpace(str); str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	return result, nil
}

// OptionalStringList is ParseStringOrArray for parameters that may be omitted.
func OptionalStringList(args map[string]interface{}, name string) ([]string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return ParseStringOrArray(v, name)
}

// CriteriaFromArgs builds thread filter criteria from the shared filter
// parameters minMessages, from, to and participants. The content query is
// read from queryKey.
func CriteriaFromArgs(args map[string]interface{}, queryKey string) (thread.Criteria, error) {
	var c thread.Criteria
	var err error

	c.Query = StringArg(args, queryKey, "")

	if c.MinMessages, err = IntArg(args, "minMessages", 0); err != nil {
		return c, err
	}
	if c.Participants, err = OptionalStringList(args, "participants"); err != nil {
		return c, err
	}
	if c.DateRange.From, err = dateArg(args, "from"); err != nil {
		return c, err
	}
	if c.DateRange.To, err = dateArg(args, "to"); err != nil {
		return c, err
	}
	return c, nil
}

func dateArg(args map[string]interface{}, name string) (*time.Time, error) {
	s := StringArg(args, name, "")
	if s == "" {
		return nil, nil
	}
	t, ok := mail.ParseDate(s)
	if !ok {
		return nil, fmt.Errorf("%s: unrecognized date %q", name, s)
	}
	return &t, nil
}

// SelectThreads picks threads by the threadIds parameter, in the order given, or
// filters all threads with CriteriaFromArgs when threadIds is absent.
func SelectThreads(threads []thread.Thread, args map[string]interface{}, queryKey string) ([]thread.Thread, error) {
	ids, err := OptionalStringList(args, "threadIds")
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		selected := thread.Select(threads, ids)
		if len(selected) == 0 {
			return nil, fmt.Errorf("none of the requested threads exist: %s", strings.Join(ids, ", "))
		}
		return selected, nil
	}

	c, err := CriteriaFromArgs(args, queryKey)
	if err != nil {
		return nil, err
	}
	return thread.Filter(threads, c), nil
}
