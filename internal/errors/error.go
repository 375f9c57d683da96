package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// Error is a classified tinyssg error.
type Error struct {
	kind    Kind
	message string
	cause   error
	context Context
}

// Sentinels for errors.Is matching by kind.
var (
	ErrRead              = &Error{kind: KindRead}
	ErrEmptyFile         = &Error{kind: KindEmptyFile}
	ErrWrite             = &Error{kind: KindWrite}
	ErrMissingContentTag = &Error{kind: KindMissingContentTag}
	ErrUnresolvedTag     = &Error{kind: KindUnresolvedTag}
	ErrIncludeRead       = &Error{kind: KindIncludeRead}
	ErrRender            = &Error{kind: KindRender}
	ErrConfig            = &Error{kind: KindConfig}
	ErrUsage             = &Error{kind: KindUsage}
)

func (e *Error) Error() string {
	msg := e.message
	if msg == "" {
		msg = string(e.kind)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Context() Context { return e.context }

// Is reports whether target is an *Error of the same kind. A target with a
// message only matches errors carrying that exact message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != t.kind {
		return false
	}
	return t.message == "" || t.message == e.message
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return ""
}

// HasKind reports whether err's chain contains an *Error of kind k.
func HasKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// Annotate returns a copy of err with key set in its context when err is
// an *Error. Any other error is returned unchanged.
func Annotate(err error, key string, value any) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	ctx := make(Context, len(e.context)+1)
	maps.Copy(ctx, e.context)
	ctx[key] = value
	return &Error{kind: e.kind, message: e.message, cause: e.cause, context: ctx}
}
