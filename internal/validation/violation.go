package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const maxDescribed = 64

// Violation is the first schema violation found in a value.
// Path is dotted with [i] for array elements, empty for the root.
type Violation struct {
	Path    string
	Message string
}

func (e *Violation) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func violation(path, format string, args ...any) *Violation {
	return &Violation{Path: path, Message: fmt.Sprintf(format, args...)}
}

// describe renders a value for a violation message.
func describe(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case json.Number:
		return v.String()
	}
	if f, ok := toFloat(value); ok {
		return formatFloat(f)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	if len(raw) > maxDescribed {
		return string(raw[:maxDescribed]) + "..."
	}
	return string(raw)
}
