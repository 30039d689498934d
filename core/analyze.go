package core

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mathieulongtin/argh/errors"
	"github.com/mathieulongtin/argh/internal/common"
)

// Struct tags understood by the analyzer:
//
//	arg:"positional" | arg:"flag" | arg:"varargs" | arg:"varkw"
//	default:"..."    fallback value; also promotes the field to an option
//	desc:"..."       help text
//	choices:"a,b,c"  restricted value set
//	long:"..."       override the derived command-line name
//	short:"x"        explicit shorthand ("-" disables auto-generation)

// reservedNames collide with control flags owned by the parser layer.
var reservedNames = map[string]bool{
	"help":       true,
	"version":    true,
	"completion": true,
}

var durationType = reflect.TypeOf(time.Duration(0))

// Analyze derives the ordered argument list from a parameter struct type.
// A nil type means the command takes no arguments.
func Analyze(t reflect.Type) ([]Argument, error) {
	if t == nil {
		return nil, nil
	}
	if !common.IsStructType(t) {
		return nil, errors.NewSignature("", "parameters must be a struct, got "+t.Kind().String())
	}

	var args []Argument
	seen := map[string]bool{}
	shorts := map[string]bool{}
	sawDefaulted := false // a positional-with-default has been declared
	sawVarArgs := false
	sawVarKw := false

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported fields are not parameters
		}

		arg, err := classify(f)
		if err != nil {
			return nil, err
		}

		if s := arg.Short; s != "" && s != "-" {
			if !isOption(arg) {
				return nil, errors.NewSignature(f.Name, "short flags only apply to options")
			}
			if len([]rune(s)) != 1 {
				return nil, errors.NewSignature(f.Name, fmt.Sprintf("short flag %q must be one letter", s))
			}
			if s == "h" {
				return nil, errors.NewSignature(f.Name, "-h is reserved for help")
			}
			if shorts[s] {
				return nil, errors.NewSignature(f.Name, fmt.Sprintf("short flag %q already in use", s))
			}
			shorts[s] = true
		}

		if reservedNames[arg.Name] {
			return nil, errors.NewSignature(f.Name, fmt.Sprintf("name %q is reserved", arg.Name))
		}
		if seen[arg.Name] {
			return nil, errors.NewSignature(f.Name, fmt.Sprintf("duplicate argument name %q", arg.Name))
		}
		seen[arg.Name] = true

		switch arg.Kind {
		case Positional:
			if sawDefaulted {
				return nil, errors.NewSignature(f.Name,
					"required positional declared after a positional with a default")
			}
			if sawVarArgs {
				return nil, errors.NewSignature(f.Name, "positional declared after the varargs collector")
			}
		case PositionalDefault:
			if sawVarArgs {
				return nil, errors.NewSignature(f.Name, "positional declared after the varargs collector")
			}
			sawDefaulted = true
		case VarArgs:
			if sawVarArgs {
				return nil, errors.NewSignature(f.Name, "only one varargs collector is allowed")
			}
			sawVarArgs = true
		case VarKeyword:
			if sawVarKw {
				return nil, errors.NewSignature(f.Name, "only one keyword collector is allowed")
			}
			sawVarKw = true
		}

		args = append(args, arg)
	}

	assignShorthands(args)
	return args, nil
}

// classify maps one struct field to an argument descriptor.
func classify(f reflect.StructField) (Argument, error) {
	mode := f.Tag.Get("arg")
	switch mode {
	case "", "positional", "flag", "varargs", "varkw":
	default:
		return Argument{}, errors.NewSignature(f.Name, fmt.Sprintf("unknown arg tag %q", mode))
	}

	name := f.Tag.Get("long")
	if name == "" {
		name = common.KebabCase(f.Name)
	}

	arg := Argument{
		Name:  name,
		Field: f.Name,
		Help:  f.Tag.Get("desc"),
		Short: f.Tag.Get("short"),
	}

	defaultTag, hasDefault := f.Tag.Lookup("default")

	// Collectors first: their shape is fixed by the field type.
	if f.Type.Kind() == reflect.Map || mode == "varkw" {
		if mode == "positional" || mode == "flag" {
			return Argument{}, errors.NewSignature(f.Name, "a keyword collector cannot be declared "+mode)
		}
		if f.Type != reflect.TypeOf(map[string]string{}) {
			return Argument{}, errors.NewSignature(f.Name, "keyword collector must be map[string]string")
		}
		if hasDefault {
			return Argument{}, errors.NewSignature(f.Name, "collection-typed defaults are not supported")
		}
		arg.Kind = VarKeyword
		arg.Type = StringMap
		return arg, nil
	}
	if f.Type.Kind() == reflect.Slice || mode == "varargs" {
		if f.Type != reflect.TypeOf([]string{}) {
			return Argument{}, errors.NewSignature(f.Name,
				"unsupported parameter type "+f.Type.String())
		}
		if hasDefault {
			return Argument{}, errors.NewSignature(f.Name, "collection-typed defaults are not supported")
		}
		arg.Kind = VarArgs
		arg.Type = StringSlice
		return arg, nil
	}

	vt, ok := valueTypeOf(f.Type)
	if !ok {
		return Argument{}, errors.NewSignature(f.Name, "unsupported parameter type "+f.Type.String())
	}
	arg.Type = vt

	if choices := f.Tag.Get("choices"); choices != "" {
		if vt == Bool {
			return Argument{}, errors.NewSignature(f.Name, "choices make no sense for a toggle")
		}
		for _, c := range strings.Split(choices, ",") {
			c = strings.TrimSpace(c)
			if _, err := ParseValue(vt, c); err != nil {
				return Argument{}, errors.NewSignature(f.Name, fmt.Sprintf("bad choice literal: %v", err))
			}
			arg.Choices = append(arg.Choices, c)
		}
	}

	if hasDefault {
		v, err := ParseValue(vt, defaultTag)
		if err != nil {
			return Argument{}, errors.NewSignature(f.Name, fmt.Sprintf("bad default: %v", err))
		}
		arg.Default = v
	}

	// A boolean parameter is always a zero-argument toggle flag; presence on
	// the command line flips its default.
	if vt == Bool {
		if mode == "positional" {
			return Argument{}, errors.NewSignature(f.Name, "boolean parameters are always toggle flags")
		}
		arg.Kind = Toggle
		if arg.Default == nil {
			arg.Default = false
		}
		return arg, nil
	}

	switch {
	case mode == "positional":
		if hasDefault {
			arg.Kind = PositionalDefault
		} else {
			arg.Kind = Positional
		}
	case hasDefault:
		arg.Kind = Flag
	case mode == "flag":
		// No default: the option must be supplied explicitly.
		arg.Kind = Flag
		arg.Required = true
	default:
		arg.Kind = Positional
	}
	return arg, nil
}

func valueTypeOf(t reflect.Type) (ValueType, bool) {
	if t == durationType {
		return Duration, true
	}
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Int:
		return Int, true
	case reflect.Int64:
		return Int64, true
	case reflect.Float64:
		return Float, true
	case reflect.Bool:
		return Bool, true
	}
	return 0, false
}

// assignShorthands gives each option a one-letter shorthand derived from the
// first rune of its name, unless another option shares that initial. An
// explicit short tag wins; "-" disables generation for the field.
func assignShorthands(args []Argument) {
	taken := map[string]bool{"h": true} // -h belongs to the help flag
	for i := range args {
		if args[i].Short == "-" {
			args[i].Short = ""
			continue
		}
		if args[i].Short != "" {
			taken[args[i].Short] = true
		}
	}

	initials := map[string]int{}
	for i := range args {
		if isOption(args[i]) && args[i].Short == "" {
			initials[args[i].Name[:1]]++
		}
	}
	for i := range args {
		if !isOption(args[i]) || args[i].Short != "" {
			continue
		}
		initial := args[i].Name[:1]
		if initials[initial] == 1 && !taken[initial] {
			args[i].Short = initial
			taken[initial] = true
		}
	}
}

func isOption(a Argument) bool {
	return a.Kind == Flag || a.Kind == Toggle
}
