package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError reports model output that could not be decoded into the
// expected shape. Raw holds the text exactly as the model returned it.
type ParseError struct {
	Prompt PromptName
	Raw    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid model output: %s", e.Prompt, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AsParseError reports whether err (or anything it wraps) is a *ParseError.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Result is either a decoded Value or a ParseError, never both.
type Result[T any] struct {
	Value T
	Err   *ParseError
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Unwrap returns the value, or the zero value and the ParseError.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

type validatable interface {
	Validate() error
}

// Decode parses raw model text into T. Code fences around the JSON are
// tolerated. When *T has a Validate method it runs after decoding.
func Decode[T any](prompt PromptName, raw string) Result[T] {
	fail := func(reason string, err error) Result[T] {
		return Result[T]{Err: &ParseError{Prompt: prompt, Raw: raw, Reason: reason, Err: err}}
	}

	body := stripFences(raw)
	if body == "" {
		return fail("empty output", nil)
	}
	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return fail(err.Error(), err)
	}
	if vv, ok := any(&v).(validatable); ok {
		if err := vv.Validate(); err != nil {
			return fail(err.Error(), err)
		}
	}
	return Result[T]{Value: v}
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
