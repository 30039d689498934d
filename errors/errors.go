package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinels for errors.Is checks against whole error classes.
var (
	ErrSignature = stderrors.New("signature error")
	ErrUserInput = stderrors.New("user input error")
	ErrCommand   = stderrors.New("command error")
)

// SignatureError indicates a parameter struct could not be classified into a
// valid argument set. It is produced at registration time, before any dispatch,
// and is fatal to registering that command.
type SignatureError struct {
	Command string // command name, when known
	Field   string // originating struct field, when known
	Msg     string
}

func (e SignatureError) Error() string {
	switch {
	case e.Command != "" && e.Field != "":
		return fmt.Sprintf("%s: parameter %s: %s", e.Command, e.Field, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("parameter %s: %s", e.Field, e.Msg)
	case e.Command != "":
		return fmt.Sprintf("%s: %s", e.Command, e.Msg)
	}
	return e.Msg
}

func (e SignatureError) Is(target error) bool { return target == ErrSignature }

// UserInputError indicates the command line violated arity, type or choice
// constraints. It is reported to the error sink with exit code 1.
type UserInputError struct{ Msg string }

func (e UserInputError) Error() string { return e.Msg }

func (e UserInputError) Is(target error) bool { return target == ErrUserInput }

// CommandError is an expected, user-facing failure signalled by command logic
// (e.g. "file not found"). The dispatcher prints its message and maps it to
// exit code 1 without a stack-level diagnostic.
type CommandError struct{ Msg string }

func (e CommandError) Error() string { return e.Msg }

func (e CommandError) Is(target error) bool { return target == ErrCommand }

// ProgramError transports an unexpected failure from command execution to the
// process boundary. It is never unwrapped away; the boundary prints a full
// diagnostic and exits with a code distinct from user-facing failures.
type ProgramError struct{ Err error }

func (e ProgramError) Error() string { return e.Err.Error() }
func (e ProgramError) Unwrap() error { return e.Err }

// Helper constructors
func NewSignature(field, msg string) error { return SignatureError{Field: field, Msg: msg} }
func NewUserInput(msg string) error        { return UserInputError{Msg: msg} }
func NewProgram(err error) error           { return ProgramError{Err: err} }

// Err builds a CommandError the way command authors raise expected failures.
func Err(format string, args ...any) error {
	return CommandError{Msg: fmt.Sprintf(format, args...)}
}
