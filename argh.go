package argh

import (
	"reflect"

	"github.com/mathieulongtin/argh/core"
	"github.com/mathieulongtin/argh/errors"
	"github.com/mathieulongtin/argh/internal/common"
)

// Option customizes a command at registration time.
type Option func(*core.Command)

// WithName overrides the command name inferred from the function symbol.
func WithName(name string) Option {
	return func(c *core.Command) { c.Name = name }
}

// WithHelp sets the command description shown in help output.
func WithHelp(help string) Option {
	return func(c *core.Command) { c.Help = help }
}

// WithAliases registers alternative names for the command.
func WithAliases(aliases ...string) Option {
	return func(c *core.Command) { c.Aliases = append(c.Aliases, aliases...) }
}

// New derives a command from a plain function. The function's parameters are
// described by the struct type P: each exported field becomes one argument,
// classified by its type and tags (see core.Analyze). The command name is
// inferred from the function symbol (snake_case and CamelCase both map to
// kebab-case) unless WithName overrides it.
//
// The function's return value drives output: nil means silent success, a
// dispatch.Stream is written line by line as it produces, anything else is
// written as a single line. Return an error built with Err to signal an
// expected, user-facing failure; any other error is treated as a defect and
// propagates to the process boundary.
func New[P any](fn func(P) (any, error), opts ...Option) (*core.Command, error) {
	call := func(v any) (any, error) { return fn(v.(P)) }
	return newCommand(common.FuncName(fn), reflect.TypeFor[P](), call, opts)
}

// Plain adapts a function that takes no arguments.
func Plain(fn func() (any, error), opts ...Option) (*core.Command, error) {
	call := func(any) (any, error) { return fn() }
	return newCommand(common.FuncName(fn), nil, call, opts)
}

func newCommand(symbol string, params reflect.Type, call func(any) (any, error), opts []Option) (*core.Command, error) {
	name := ""
	if !common.IsAnonymousName(symbol) {
		name = common.KebabCase(symbol)
	}
	cmd, err := core.NewCommand(name, params, call)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(cmd)
	}
	if cmd.Name == "" {
		return nil, errors.SignatureError{Msg: "cannot infer a name for an anonymous function, use WithName"}
	}
	return cmd, nil
}
