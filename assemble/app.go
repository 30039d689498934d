package assemble

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/mathieulongtin/argh/core"
	"github.com/mathieulongtin/argh/errors"
)

var osExit = os.Exit // Mockable for testing

// App is the command registry: it records registered commands and the
// output/error sinks shared by every dispatch. Commands are added at setup
// time and the registry is read-only afterwards; each Execute builds a fresh
// parser from the registry, so no parse state survives between invocations.
type App struct {
	name        string
	description string
	version     string
	out         io.Writer
	errw        io.Writer

	defaultCmd *core.Command
	commands   []*core.Command
	groups     []commandGroup
}

type commandGroup struct {
	name string
	help string
	cmds []*core.Command
}

type AppOption func(*App)

// WithDescription sets the text shown at the top of the root help screen.
func WithDescription(desc string) AppOption {
	return func(a *App) { a.description = desc }
}

// WithVersion sets an explicit version string, overriding build-info inference.
func WithVersion(version string) AppOption {
	return func(a *App) { a.version = version }
}

// WithOutput redirects the output and error sinks. The app only writes to
// them; opening and closing is the caller's responsibility.
func WithOutput(out, errw io.Writer) AppOption {
	return func(a *App) {
		a.out = out
		a.errw = errw
	}
}

// NewApp creates an application registry named after the executable.
func NewApp(name string, opts ...AppOption) *App {
	a := &App{
		name: name,
		out:  os.Stdout,
		errw: os.Stderr,
	}
	if v, err := inferVersion(); err == nil {
		a.version = v
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetDefault attaches cmd to the bare program name, so the app can be invoked
// without a command token. Named commands may still be added alongside.
func (a *App) SetDefault(cmd *core.Command) {
	a.defaultCmd = cmd
}

// Add registers commands under their own names.
func (a *App) Add(cmds ...*core.Command) {
	a.commands = append(a.commands, cmds...)
}

// AddGroup registers commands under a shared group token, one level deep:
// "app db get". The group itself is not dispatchable and only shows help.
func (a *App) AddGroup(name, help string, cmds ...*core.Command) {
	a.groups = append(a.groups, commandGroup{name: name, help: help, cmds: cmds})
}

// newRoot assembles a fresh cobra command tree from the registry. Flag values
// live on the tree, so a new tree per invocation keeps runs independent.
func (a *App) newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           a.name,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if a.description != "" {
		root.Short = firstLine(a.description)
		root.Long = a.description
	}

	if a.defaultCmd != nil {
		a.bind(root, a.defaultCmd)
		root.Use = useLine(a.name, a.defaultCmd) // keep the executable name in the synopsis
		if a.description == "" {
			root.Short = firstLine(a.defaultCmd.Help)
			root.Long = a.defaultCmd.Help
		}
	}
	for _, cmd := range a.commands {
		root.AddCommand(a.build(cmd))
	}
	for _, g := range a.groups {
		group := &cobra.Command{
			Use:           g.name,
			Short:         firstLine(g.help),
			Long:          g.help,
			SilenceUsage:  true,
			SilenceErrors: true,
		}
		for _, cmd := range g.cmds {
			group.AddCommand(a.build(cmd))
		}
		root.AddCommand(group)
	}
	return root
}

// Run executes the app against os.Args and terminates the process.
func (a *App) Run() {
	osExit(a.Execute(os.Args[1:]))
}

// Execute runs the app against argv and returns the process exit code: 0 on
// success, 1 for user input errors and expected command failures, 2 for
// anything unexpected (printed with a full diagnostic).
func (a *App) Execute(argv []string) int {
	if argv == nil {
		argv = []string{} // nil would make cobra fall back to os.Args
	}
	root := a.newRoot()
	root.SetArgs(argv)
	root.SetOut(a.out)
	root.SetErr(a.errw)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	var status statusError
	if stderrors.As(err, &status) {
		// Already reported by the dispatcher.
		return status.code
	}

	var program errors.ProgramError
	if stderrors.As(err, &program) {
		fmt.Fprintf(a.errw, "unexpected error: %+v\n", program.Unwrap())
		return 2
	}

	// Everything else came from the parser layer: arity, types, choices,
	// unknown flags or commands.
	fmt.Fprintln(a.errw, err)
	if cmd != nil {
		fmt.Fprintf(a.errw, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return 1
}

// inferVersion pulls the main module version from build info, when embedded.
func inferVersion() (string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", fmt.Errorf("unable to read build info")
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, nil
	}
	return "", fmt.Errorf("no version info found in build metadata")
}
