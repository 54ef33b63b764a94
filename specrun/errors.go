package specrun

import (
	"errors"
	"fmt"
)

// Error is a resolution failure. Two errors are equal under errors.Is when
// their kinds match, so callers compare against the Err* values below.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind
	}
	return e.Msg
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrConfigurationNotFound   = &Error{Kind: "ConfigurationNotFound"}
	ErrWorkingDirectoryInvalid = &Error{Kind: "WorkingDirectoryInvalid"}
	ErrInvalidVersionPinFormat = &Error{Kind: "InvalidVersionPinFormat"}
	ErrVersionsRootNotSet      = &Error{Kind: "VersionsRootNotConfigured"}
	ErrVersionsRootInvalid     = &Error{Kind: "VersionsRootInvalid"}
	ErrInterpreterNotExec      = &Error{Kind: "InterpreterNotExecutable"}
	ErrToolNotFound            = &Error{Kind: "ToolNotFound"}
	ErrWrapperNotExecutable    = &Error{Kind: "WrapperNotExecutable"}
	ErrTestFileNotFound        = &Error{Kind: "TestFileNotFound"}
	ErrNoClassFound            = &Error{Kind: "NoClassFound"}
	ErrNoPairedFileFound       = &Error{Kind: "NoPairedFileFound"}
	ErrAmbiguousPairedFile     = &Error{Kind: "AmbiguousPairedFile"}
	ErrNoPreviousRun           = &Error{Kind: "NoPreviousRun"}

	// ErrSelectionCancelled is returned when the user dismisses a choice
	// list. Callers abort without reporting it.
	ErrSelectionCancelled = errors.New("selection cancelled")
)

func newError(kind *Error, format string, args ...any) error {
	return &Error{Kind: kind.Kind, Msg: fmt.Sprintf(format, args...)}
}
