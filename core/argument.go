package core

import (
	"fmt"
	"strconv"
	"time"
)

// Kind classifies how a derived argument is supplied on the command line.
type Kind int

const (
	// Positional is a required positional argument.
	Positional Kind = iota
	// PositionalDefault is a positional argument with a fallback value.
	PositionalDefault
	// Flag is a --name value option.
	Flag
	// Toggle is a zero-argument boolean flag whose presence flips its default.
	Toggle
	// VarArgs collects all residual positional tokens, in order.
	VarArgs
	// VarKeyword collects arbitrary additional --name=value pairs into a map.
	VarKeyword
)

func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case PositionalDefault:
		return "positional-with-default"
	case Flag:
		return "flag"
	case Toggle:
		return "toggle"
	case VarArgs:
		return "varargs"
	case VarKeyword:
		return "varkw"
	}
	return "unknown"
}

// ValueType is the coercion type derived from a parameter's static Go type.
type ValueType int

const (
	String ValueType = iota
	Int
	Int64
	Float
	Bool
	Duration
	StringSlice
	StringMap
)

func (v ValueType) String() string {
	switch v {
	case String:
		return "string"
	case Int:
		return "int"
	case Int64:
		return "int64"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Duration:
		return "duration"
	case StringSlice:
		return "strings"
	case StringMap:
		return "string map"
	}
	return "unknown"
}

// Argument is the derived specification of one command-line argument, decoupled
// from the originating struct field.
type Argument struct {
	Name     string // command-line name (kebab-case)
	Field    string // originating struct field
	Kind     Kind
	Type     ValueType
	Default  any    // typed default value, nil when none declared
	Required bool   // for Flag kind: the option must be supplied
	Help     string
	Choices  []string
	Short    string // one-letter shorthand, empty when none
}

// Invocation maps argument names to parsed, coerced values for a single run.
// It is produced by the parser layer and consumed by the dispatcher.
type Invocation map[string]any

// ParseValue coerces a raw token into vt. Used both for default literals at
// registration time and for positional tokens at parse time.
func ParseValue(vt ValueType, raw string) (any, error) {
	switch vt {
	case String:
		return raw, nil
	case Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid int value: %q", raw)
		}
		return n, nil
	case Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int64 value: %q", raw)
		}
		return n, nil
	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value: %q", raw)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value: %q", raw)
		}
		return b, nil
	case Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration value: %q", raw)
		}
		return d, nil
	}
	return nil, fmt.Errorf("cannot parse %q as %s", raw, vt)
}
