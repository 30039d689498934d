package argh

import (
	"github.com/mathieulongtin/argh/assemble"
	"github.com/mathieulongtin/argh/core"
	"github.com/mathieulongtin/argh/dispatch"
	"github.com/mathieulongtin/argh/errors"
)

// Command couples a callable with the argument descriptors derived from its
// parameter struct. Build one with New or Plain and hand it to an App.
type Command = core.Command

// Argument is the derived specification of one command-line argument.
type Argument = core.Argument

// Kind classifies how an argument is supplied on the command line.
type Kind = core.Kind

// Invocation maps argument names to parsed values for a single run.
type Invocation = core.Invocation

const (
	Positional        = core.Positional
	PositionalDefault = core.PositionalDefault
	Flag              = core.Flag
	Toggle            = core.Toggle
	VarArgs           = core.VarArgs
	VarKeyword        = core.VarKeyword
)

// Stream is a pull-based producer of output lines; return one from a command
// to have its items written to the output sink as they are produced.
type Stream = dispatch.Stream

// Stream constructors.
var (
	FromSlice   = dispatch.FromSlice
	FromStrings = dispatch.FromStrings
	FromFunc    = dispatch.FromFunc
)

// App is the command registry and process boundary.
type App = assemble.App

// AppOption configures an App at construction time.
type AppOption = assemble.AppOption

var (
	NewApp          = assemble.NewApp
	WithDescription = assemble.WithDescription
	WithVersion     = assemble.WithVersion
	WithOutput      = assemble.WithOutput
)

// Err builds an expected, user-facing command failure: the dispatcher prints
// the message to the error sink and exits with code 1, without a diagnostic.
var Err = errors.Err

// Dispatch exposes the dispatcher for callers driving commands without an App.
var Dispatch = dispatch.Dispatch
