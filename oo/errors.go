package oo

import (
	"fmt"
	"strings"
)

// Error is the structured error raised by the object system. Callers branch
// on Category and Subcategory; Message is for humans only.
type Error struct {
	Category    string
	Subcategory string
	Message     string
}

var (
	ErrAbstractSlot  = &Error{Category: "ABSTRACT_SLOT"}
	ErrSingleton     = &Error{Category: "SINGLETON"}
	ErrLocalElement  = &Error{Category: "UPVAR", Subcategory: "LOCAL_ELEMENT"}
	ErrInverted      = &Error{Category: "UPVAR", Subcategory: "INVERTED"}
	ErrLinkFormat    = &Error{Category: "CMDLINK", Subcategory: "FORMAT"}
	ErrUnknownMethod = &Error{Category: "UNKNOWN_METHOD"}
	ErrWrongArgs     = &Error{Category: "WRONGARGS"}
	ErrNoNext        = &Error{Category: "NEXT", Subcategory: "NO_TARGET"}
	ErrCycle         = &Error{Category: "DEFINE", Subcategory: "CYCLE"}
	ErrExists        = &Error{Category: "OBJECT", Subcategory: "EXISTS"}
	ErrNoSuchObject  = &Error{Category: "LOOKUP", Subcategory: "OBJECT"}
	ErrNotClass      = &Error{Category: "LOOKUP", Subcategory: "CLASS"}
	ErrNoSuchCommand = &Error{Category: "LOOKUP", Subcategory: "COMMAND"}
	ErrNoSuchVar     = &Error{Category: "LOOKUP", Subcategory: "VARNAME"}
	ErrDeadObject    = &Error{Category: "NONE", Subcategory: "OBJECT"}
	ErrCallDepth     = &Error{Category: "LIMIT", Subcategory: "CALL_DEPTH"}
	ErrNotInClass    = &Error{Category: "CONTEXT", Subcategory: "CLASS"}
)

func newError(category, subcategory, format string, args ...any) *Error {
	return &Error{
		Category:    category,
		Subcategory: subcategory,
		Message:     fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return strings.Join(e.Code(), " ")
}

// Code returns the error code as a word list, category first.
func (e *Error) Code() []string {
	if e.Subcategory == "" {
		return []string{e.Category}
	}
	return []string{e.Category, e.Subcategory}
}

// Is matches on category, and on subcategory when the target names one, so
// errors.Is(err, ErrSingleton) works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Category != e.Category {
		return false
	}
	return t.Subcategory == "" || t.Subcategory == e.Subcategory
}

func wrongArgs(usage string) *Error {
	return newError("WRONGARGS", "", "wrong # args: should be %q", usage)
}
