package core

import (
	stderrors "errors"
	"reflect"

	"github.com/mathieulongtin/argh/errors"
)

// Command couples a callable with the argument list derived from its parameter
// struct. Commands are created once at registration time and owned by the
// command registry; they must not be mutated after registration.
type Command struct {
	Name    string
	Help    string
	Aliases []string
	Args    []Argument

	params reflect.Type
	call   func(params any) (any, error)
}

// NewCommand analyzes params and builds a command around call. The call
// function receives a fully bound value of the params type (nil for commands
// without parameters) and returns the command's result value.
func NewCommand(name string, params reflect.Type, call func(any) (any, error)) (*Command, error) {
	args, err := Analyze(params)
	if err != nil {
		var sig errors.SignatureError
		if stderrors.As(err, &sig) && sig.Command == "" {
			sig.Command = name
			return nil, sig
		}
		return nil, err
	}
	return &Command{Name: name, Args: args, params: params, call: call}, nil
}

// ParamsType returns the parameter struct type, nil for parameterless commands.
func (c *Command) ParamsType() reflect.Type { return c.params }

// Invoke calls the underlying function with a bound parameter struct value.
func (c *Command) Invoke(params any) (any, error) { return c.call(params) }

// Positionals returns the positional arguments in declaration order, required
// ones first by construction.
func (c *Command) Positionals() []Argument {
	var out []Argument
	for _, a := range c.Args {
		if a.Kind == Positional || a.Kind == PositionalDefault {
			out = append(out, a)
		}
	}
	return out
}

// Options returns the flag and toggle arguments in declaration order.
func (c *Command) Options() []Argument {
	var out []Argument
	for _, a := range c.Args {
		if isOption(a) {
			out = append(out, a)
		}
	}
	return out
}

// VarArgs returns the varargs collector, if declared.
func (c *Command) VarArgs() (Argument, bool) { return c.find(VarArgs) }

// VarKeyword returns the keyword collector, if declared.
func (c *Command) VarKeyword() (Argument, bool) { return c.find(VarKeyword) }

func (c *Command) find(k Kind) (Argument, bool) {
	for _, a := range c.Args {
		if a.Kind == k {
			return a, true
		}
	}
	return Argument{}, false
}
