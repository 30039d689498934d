// Package assemble adapts analyzed commands onto the underlying parsing
// library (spf13/cobra + pflag). Parser construction, option grammar, help
// rendering, shell completion and subcommand bookkeeping are all delegated to
// the library; this package only translates argument descriptors into flag
// definitions and parsed results into an invocation for the dispatcher.
package assemble

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mathieulongtin/argh/core"
	"github.com/mathieulongtin/argh/dispatch"
	"github.com/mathieulongtin/argh/errors"
)

// statusError carries an exit code out of cobra's Execute after the dispatcher
// has already reported the failure to the error sink.
type statusError struct{ code int }

func (e statusError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// build creates a cobra command for cmd, wired to the app's sinks.
func (a *App) build(cmd *core.Command) *cobra.Command {
	c := &cobra.Command{
		Use:     useLine(cmd.Name, cmd),
		Short:   firstLine(cmd.Help),
		Long:    cmd.Help,
		Aliases: cmd.Aliases,
	}
	a.bind(c, cmd)
	return c
}

// bind registers cmd's flags on c and installs the run hook. It is also used
// to attach a default command directly to the application root.
func (a *App) bind(c *cobra.Command, cmd *core.Command) {
	c.Args = cobra.ArbitraryArgs // arity is validated against the descriptors
	c.SilenceUsage = true
	c.SilenceErrors = true

	fs := c.Flags()
	fs.SortFlags = false
	for _, arg := range cmd.Options() {
		registerFlag(fs, arg)
		if arg.Required {
			_ = c.MarkFlagRequired(arg.Name)
		}
	}

	_, hasKw := cmd.VarKeyword()
	if hasKw {
		// Unknown --name=value pairs must reach the keyword collector, so the
		// flag set is driven by hand instead of by cobra.
		c.DisableFlagParsing = true
	}

	c.RunE = func(cc *cobra.Command, argv []string) error {
		inv := core.Invocation{}

		if hasKw {
			if wantsHelp(argv) {
				return cc.Help()
			}
			kwArg, _ := cmd.VarKeyword()
			keywords, rest := splitKeywords(argv, fs)
			if err := fs.Parse(rest); err != nil {
				return errors.NewUserInput(err.Error())
			}
			if err := cc.ValidateRequiredFlags(); err != nil {
				return errors.NewUserInput(err.Error())
			}
			inv[kwArg.Name] = keywords
			argv = fs.Args()
		}

		if err := bindPositionals(cmd, argv, inv); err != nil {
			return err
		}
		if err := collectFlags(cmd, fs, inv); err != nil {
			return errors.NewProgram(err)
		}

		code, err := dispatch.Dispatch(cmd, inv, a.out, a.errw)
		if err != nil {
			return errors.NewProgram(err)
		}
		if code != 0 {
			return statusError{code: code}
		}
		return nil
	}
}

// registerFlag declares one option on the flag set with its typed default.
func registerFlag(fs *pflag.FlagSet, arg core.Argument) {
	usage := arg.Help
	if len(arg.Choices) > 0 {
		choices := "one of: " + strings.Join(arg.Choices, ", ")
		if usage == "" {
			usage = choices
		} else {
			usage += " (" + choices + ")"
		}
		fs.VarP(newChoiceValue(arg), arg.Name, arg.Short, usage)
		return
	}

	switch arg.Type {
	case core.String:
		fs.StringP(arg.Name, arg.Short, stringDefault(arg), usage)
	case core.Int:
		d, _ := arg.Default.(int)
		fs.IntP(arg.Name, arg.Short, d, usage)
	case core.Int64:
		d, _ := arg.Default.(int64)
		fs.Int64P(arg.Name, arg.Short, d, usage)
	case core.Float:
		d, _ := arg.Default.(float64)
		fs.Float64P(arg.Name, arg.Short, d, usage)
	case core.Duration:
		d, _ := arg.Default.(time.Duration)
		fs.DurationP(arg.Name, arg.Short, d, usage)
	case core.Bool:
		d, _ := arg.Default.(bool)
		fs.BoolP(arg.Name, arg.Short, d, usage)
		// Presence flips the default; an explicit --name=true/false still wins.
		fs.Lookup(arg.Name).NoOptDefVal = strconv.FormatBool(!d)
	}
}

func stringDefault(arg core.Argument) string {
	if s, ok := arg.Default.(string); ok {
		return s
	}
	return ""
}

// bindPositionals maps positional tokens onto descriptors in declaration
// order, coercing each token to the argument's declared type. Residual tokens
// go to the varargs collector when one is declared and are rejected otherwise.
func bindPositionals(cmd *core.Command, argv []string, inv core.Invocation) error {
	var missing []string
	i := 0
	for _, arg := range cmd.Positionals() {
		if i >= len(argv) {
			if arg.Kind == core.Positional {
				missing = append(missing, arg.Name)
			}
			continue
		}
		value, err := coerce(arg, argv[i])
		if err != nil {
			return err
		}
		inv[arg.Name] = value
		i++
	}
	if len(missing) > 0 {
		return errors.NewUserInput("the following arguments are required: " + strings.Join(missing, ", "))
	}

	if va, ok := cmd.VarArgs(); ok {
		inv[va.Name] = append([]string{}, argv[i:]...)
		i = len(argv)
	}
	if i < len(argv) {
		return errors.NewUserInput("unrecognized arguments: " + strings.Join(argv[i:], " "))
	}
	return nil
}

// coerce converts one positional token per the descriptor's declared type and
// choice set. Failures are user input errors, never analyzer errors.
func coerce(arg core.Argument, raw string) (any, error) {
	if len(arg.Choices) > 0 && !contains(arg.Choices, raw) {
		return nil, errors.NewUserInput(fmt.Sprintf("argument %s: invalid choice %q (choose from %s)",
			arg.Name, raw, strings.Join(arg.Choices, ", ")))
	}
	value, err := core.ParseValue(arg.Type, raw)
	if err != nil {
		return nil, errors.NewUserInput(fmt.Sprintf("argument %s: %v", arg.Name, err))
	}
	return value, nil
}

// collectFlags reads every parsed option back out of the flag set into the
// invocation. Values are round-tripped through the flag's string form, which
// pflag guarantees to be parseable.
func collectFlags(cmd *core.Command, fs *pflag.FlagSet, inv core.Invocation) error {
	for _, arg := range cmd.Options() {
		if arg.Default == nil && arg.Kind == core.Flag && !fs.Changed(arg.Name) {
			continue
		}
		raw := fs.Lookup(arg.Name).Value.String()
		value, err := core.ParseValue(arg.Type, raw)
		if err != nil {
			return fmt.Errorf("flag --%s: %v", arg.Name, err)
		}
		inv[arg.Name] = value
	}
	return nil
}

// splitKeywords peels unknown --name=value tokens off argv into the keyword
// map, leaving everything else (including anything after "--") untouched.
func splitKeywords(argv []string, fs *pflag.FlagSet) (map[string]string, []string) {
	keywords := map[string]string{}
	var rest []string
	terminated := false
	for _, tok := range argv {
		if tok == "--" {
			terminated = true
		}
		if !terminated && strings.HasPrefix(tok, "--") {
			if eq := strings.Index(tok, "="); eq > 2 {
				name := tok[2:eq]
				if fs.Lookup(name) == nil && name != "help" {
					keywords[name] = tok[eq+1:]
					continue
				}
			}
		}
		rest = append(rest, tok)
	}
	return keywords, rest
}

func wantsHelp(argv []string) bool {
	for _, tok := range argv {
		if tok == "--" {
			return false
		}
		if tok == "-h" || tok == "--help" {
			return true
		}
	}
	return false
}

// useLine renders the usage synopsis for a command from its descriptors.
func useLine(name string, cmd *core.Command) string {
	parts := []string{name}
	for _, arg := range cmd.Positionals() {
		if arg.Kind == core.Positional {
			parts = append(parts, "<"+arg.Name+">")
		} else {
			parts = append(parts, "["+arg.Name+"]")
		}
	}
	if va, ok := cmd.VarArgs(); ok {
		parts = append(parts, "["+va.Name+"...]")
	}
	return strings.Join(parts, " ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
