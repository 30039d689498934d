package dispatch

import (
	stderrors "errors"
	"fmt"
	"io"
	"reflect"

	"github.com/mathieulongtin/argh/core"
	"github.com/mathieulongtin/argh/errors"
)

// Dispatch binds the parsed invocation to cmd's parameters, invokes the
// command exactly once and renders its result to out. It returns the exit
// code: 0 on success, 1 when the command signalled an expected failure (the
// message has been written to errw). Any other failure is returned unhandled
// so the process boundary can produce a full diagnostic.
func Dispatch(cmd *core.Command, inv core.Invocation, out, errw io.Writer) (int, error) {
	params, err := bind(cmd, inv)
	if err != nil {
		return 0, err
	}

	result, err := cmd.Invoke(params)
	if err != nil {
		return fail(err, errw)
	}

	switch r := result.(type) {
	case nil:
		return 0, nil
	case Stream:
		// Each item is flushed before the next is requested; output produced
		// ahead of a mid-stream failure is preserved.
		for r.Next() {
			fmt.Fprintln(out, render(r.Item()))
		}
		if err := r.Err(); err != nil {
			return fail(err, errw)
		}
		return 0, nil
	default:
		fmt.Fprintln(out, render(result))
		return 0, nil
	}
}

// fail absorbs expected failures and lets everything else propagate.
func fail(err error, errw io.Writer) (int, error) {
	var cmdErr errors.CommandError
	if stderrors.As(err, &cmdErr) {
		fmt.Fprintln(errw, cmdErr.Msg)
		return 1, nil
	}
	return 0, err
}

func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// bind builds a parameter struct for cmd from the invocation: positionals and
// options by name, the varargs field from the residual positional list, the
// keyword field from the collected --name=value map. Missing values fall back
// to the argument's declared default.
func bind(cmd *core.Command, inv core.Invocation) (any, error) {
	t := cmd.ParamsType()
	if t == nil {
		return nil, nil
	}
	params := reflect.New(t).Elem()

	for _, arg := range cmd.Args {
		value, ok := inv[arg.Name]
		if !ok {
			value = arg.Default
		}
		if value == nil {
			continue
		}
		field := params.FieldByName(arg.Field)
		if !field.IsValid() || !field.CanSet() {
			return nil, fmt.Errorf("dispatch: cannot bind field %s of %s", arg.Field, t)
		}
		rv := reflect.ValueOf(value)
		switch {
		case rv.Type().AssignableTo(field.Type()):
			field.Set(rv)
		case rv.Type().ConvertibleTo(field.Type()):
			field.Set(rv.Convert(field.Type()))
		default:
			return nil, fmt.Errorf("dispatch: cannot bind %s value to field %s (%s)",
				rv.Type(), arg.Field, field.Type())
		}
	}

	return params.Interface(), nil
}
