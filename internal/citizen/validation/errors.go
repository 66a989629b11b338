// Package validation checks citizen imports and patches before they reach
// the store. Decoding is strict and every offending field is reported, not
// just the first one.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	dErrors "census/pkg/domain-errors"
)

// Messages reported per field.
const (
	MsgRequired     = "Missing data for required field."
	MsgUnknownField = "Unknown field."
	MsgNull         = "Field may not be null."
	MsgInteger      = "Not a valid integer."
	MsgString       = "Not a valid string."
	MsgList         = "Not a valid list."
	MsgObject       = "Invalid input type."
	MsgDate         = "Not a valid date. Expected DD.MM.YYYY."
	MsgPastDate     = "Birth date must be in the past."
	MsgPositive     = "Must be greater than or equal to 1."
	MsgLength       = "Length must be between 1 and 256."
	MsgGender       = "Must be one of: male, female."
	MsgEmptyList    = "Shorter than minimum length 1."
	MsgInvalidJSON  = "Invalid JSON."
	MsgEmptyPatch   = "At least one field must be provided."
	MsgImmutableID  = "citizen_id cannot be changed."
)

// SchemaKey holds errors that belong to the document as a whole.
const SchemaKey = "_schema"

// Errors maps a field path (e.g. "citizens.3.birth_date") to its messages.
type Errors map[string][]string

func (e Errors) Add(path, message string) {
	e[path] = append(e[path], message)
}

// Merge copies other into e, prefixing every path. An empty path in other
// lands on the prefix itself.
func (e Errors) Merge(prefix string, other Errors) {
	for path, msgs := range other {
		key := path
		switch {
		case prefix == "":
		case path == "":
			key = prefix
		default:
			key = prefix + "." + path
		}
		e[key] = append(e[key], msgs...)
	}
}

func (e Errors) Empty() bool { return len(e) == 0 }

// Paths returns the error paths in sorted order.
func (e Errors) Paths() []string {
	out := make([]string, 0, len(e))
	for p := range e {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, p := range e.Paths() {
		parts = append(parts, fmt.Sprintf("%s: %s", p, strings.Join(e[p], " ")))
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there is nothing to report, otherwise a
// CodeValidation domain error carrying e.
func (e Errors) Err(message string) error {
	if e.Empty() {
		return nil
	}
	return dErrors.Wrap(e, dErrors.CodeValidation, message)
}

// FromError extracts the field detail of a validation error, if any.
func FromError(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Single builds a one-entry validation error.
func Single(path, message, summary string) error {
	e := Errors{}
	e.Add(path, message)
	return e.Err(summary)
}

// Fields exposes the per-path detail to the HTTP error writer.
func (e Errors) Fields() map[string][]string { return e }
