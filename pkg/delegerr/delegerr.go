// Package delegerr defines the flat error taxonomy shared by every component
// of the delegation core. Callers branch on Kind, not on string matching.
package delegerr

import "fmt"

// Kind identifies a class of failure a caller may want to branch on.
type Kind string

const (
	Serialize   Kind = "Serialize"
	Deserialize Kind = "Deserialize"
	Decoding    Kind = "Decoding"

	EmptyPermissions Kind = "EmptyPermissions"
	EmptyOperations  Kind = "EmptyOperations"

	PermissionNotGranted Kind = "PermissionNotGranted"
	CannotEscalate       Kind = "CannotEscalate"
	CardinalityMismatch  Kind = "CardinalityMismatch"
	ChainBroken          Kind = "ChainBroken"
	InvalidRoot          Kind = "InvalidRoot"
	OperationNotInherited Kind = "OperationNotInherited"

	MembershipFailed Kind = "MembershipFailed"
	LengthMismatch   Kind = "LengthMismatch"

	ParseError Kind = "ParseError"
	NotYetValid Kind = "NotYetValid"
	Expired     Kind = "Expired"
	Inverted    Kind = "Inverted"

	UnknownPresenter Kind = "UnknownPresenter"
	UnknownOwner     Kind = "UnknownOwner"

	JWSInvalid Kind = "JWSInvalid"
	JWEInvalid Kind = "JWEInvalid"

	WorkerPanic Kind = "WorkerPanic"

	AlreadyPresent Kind = "AlreadyPresent"
	Absent         Kind = "Absent"

	// ChainTooDeep guards scheme B's recursive verification against a
	// malicious self-referential hierarchy (SPEC_FULL.md §4.9 / §9).
	ChainTooDeep Kind = "ChainTooDeep"
)

// Error is the concrete error type returned by every package in this module.
type Error struct {
	Kind  Kind
	Msg   string
	Index int // meaningful only for MembershipFailed
	Err   error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, delegerr.New(kind, "")) style matching on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Error of the given kind wrapping a lower-level cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// AtIndex constructs a MembershipFailed-style Error carrying a batch index.
func AtIndex(kind Kind, index int, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Index: index}
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, else "".
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return ""
	}
	return e.Kind
}
