package assemble_test

import (
	"bytes"
	stderrs "errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"

	"github.com/mathieulongtin/argh"
)

type greetParams struct {
	Name     string `desc:"who to greet"`
	Greeting string `default:"Hello" desc:"greeting to use"`
}

func greet(a greetParams) (any, error) {
	return fmt.Sprintf("%s, %s!", a.Greeting, a.Name), nil
}

func newTestApp(t *testing.T, out, errw *bytes.Buffer, opts ...argh.AppOption) *argh.App {
	t.Helper()
	opts = append([]argh.AppOption{argh.WithOutput(out, errw)}, opts...)
	return argh.NewApp("app", opts...)
}

func TestExecute_DefaultCommand(t *testing.T) {
	cmd, err := argh.New(greet)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"Ann"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hello, Ann!\n", out.String())
	assert.Equal(t, "", errw.String())

	out.Reset()
	code = app.Execute([]string{"--greeting", "Hi", "Ann"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hi, Ann!\n", out.String())

	out.Reset()
	code = app.Execute([]string{"-g", "Hi", "Ann"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hi, Ann!\n", out.String())
}

func TestExecute_MissingPositionalNeverInvokes(t *testing.T) {
	invoked := false
	cmd, err := argh.New(func(a greetParams) (any, error) {
		invoked = true
		return nil, nil
	}, argh.WithName("greet"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 1, code)
	assert.True(t, !invoked)
	assert.StringContains(t, errw.String(), "the following arguments are required: name")
}

func TestExecute_UnrecognizedArguments(t *testing.T) {
	cmd, err := argh.New(greet)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"Ann", "Bob"})
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "unrecognized arguments: Bob")
}

type parrotParams struct {
	Dead bool `desc:"is the parrot dead"`
}

func parrot(a parrotParams) (any, error) {
	if a.Dead {
		return "this parrot is no more", nil
	}
	return "beautiful plumage", nil
}

func TestExecute_ToggleFlipsDefault(t *testing.T) {
	cmd, err := argh.New(parrot)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 0, code)
	assert.Equal(t, "beautiful plumage\n", out.String())

	out.Reset()
	code = app.Execute([]string{"--dead"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "this parrot is no more\n", out.String())

	out.Reset()
	code = app.Execute([]string{"--dead=false"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "beautiful plumage\n", out.String())
}

func TestExecute_RoundTripDefaults(t *testing.T) {
	type params struct {
		Host    string        `default:"localhost"`
		Port    int           `default:"8080"`
		Ratio   float64       `default:"0.5"`
		Wait    time.Duration `default:"30s"`
		Verbose bool
	}
	var got params
	cmd, err := argh.New(func(a params) (any, error) {
		got = a
		return nil, nil
	}, argh.WithName("serve"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 0, code)
	assert.Equal(t, "localhost", got.Host)
	assert.Equal(t, 8080, got.Port)
	assert.Equal(t, 0.5, got.Ratio)
	assert.Equal(t, 30*time.Second, got.Wait)
	assert.Equal(t, false, got.Verbose)

	code = app.Execute([]string{"--port", "9000", "--wait", "1m"})
	assert.Equal(t, 0, code)
	assert.Equal(t, 9000, got.Port)
	assert.Equal(t, time.Minute, got.Wait)
	assert.Equal(t, "localhost", got.Host)
}

func TestExecute_Choices(t *testing.T) {
	type params struct {
		Level string `default:"info" choices:"debug,info,warn"`
	}
	cmd, err := argh.New(func(a params) (any, error) { return a.Level, nil }, argh.WithName("log"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"--level", "warn"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "warn\n", out.String())

	out.Reset()
	code = app.Execute([]string{"--level", "trace"})
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "invalid choice")
}

func TestExecute_PositionalCoercion(t *testing.T) {
	type params struct {
		Count int
	}
	cmd, err := argh.New(func(a params) (any, error) { return a.Count * 2, nil }, argh.WithName("double"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"21"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "42\n", out.String())

	out.Reset()
	code = app.Execute([]string{"many"})
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "argument count: invalid int value")
}

func echo(a struct{ Text string }) (any, error) {
	return "you said " + a.Text, nil
}

func TestExecute_NamedCommands(t *testing.T) {
	cmd, err := argh.New(echo)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.Add(cmd)

	code := app.Execute([]string{"echo", "hi there"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "you said hi there\n", out.String())
}

func TestExecute_UnknownCommand(t *testing.T) {
	cmd, err := argh.New(echo)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.Add(cmd)

	code := app.Execute([]string{"exho", "hi"})
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "unknown command")
}

func TestExecute_Group(t *testing.T) {
	get, err := argh.New(func(a struct{ Key string }) (any, error) {
		return "value of " + a.Key, nil
	}, argh.WithName("get"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.AddGroup("db", "database commands", get)

	code := app.Execute([]string{"db", "get", "color"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "value of color\n", out.String())

	// The group itself is not dispatchable; it shows help and succeeds.
	out.Reset()
	code = app.Execute([]string{"db"})
	assert.Equal(t, 0, code)
}

func TestExecute_ExpectedFailure(t *testing.T) {
	cmd, err := argh.Plain(func() (any, error) {
		return nil, argh.Err("bad path")
	}, argh.WithName("open"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 1, code)
	assert.Equal(t, "", out.String())
	assert.Equal(t, "bad path\n", errw.String())
}

func TestExecute_UnexpectedFailure(t *testing.T) {
	boom := stderrs.New("nil map write")
	cmd, err := argh.Plain(func() (any, error) { return nil, boom }, argh.WithName("crash"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 2, code)
	assert.StringContains(t, errw.String(), "unexpected error: nil map write")
}

func TestExecute_VarKeywordCollector(t *testing.T) {
	type params struct {
		Name  string
		Upper bool              `desc:"uppercase keys"`
		Extra map[string]string `desc:"arbitrary extras"`
	}
	cmd, err := argh.New(func(a params) (any, error) {
		keys := make([]string, 0, len(a.Extra))
		for k := range a.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			key := k
			if a.Upper {
				key = strings.ToUpper(key)
			}
			lines = append(lines, fmt.Sprintf("%s: %s=%s", a.Name, key, a.Extra[k]))
		}
		return argh.FromStrings(lines...), nil
	}, argh.WithName("tag"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"item", "--foo=1", "--upper", "--bar=2"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "item: BAR=2\nitem: FOO=1\n", out.String())
}

func TestExecute_InvocationsAreIndependent(t *testing.T) {
	type params struct {
		On    bool              `desc:"enable marking"`
		Extra map[string]string `desc:"arbitrary extras"`
	}
	var got params
	cmd, err := argh.New(func(a params) (any, error) {
		got = a
		return nil, nil
	}, argh.WithName("mark"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"--on", "--foo=1"})
	assert.Equal(t, 0, code)
	assert.True(t, got.On)
	assert.Equal(t, "1", got.Extra["foo"])

	// A token-free run sees the declared defaults, not the previous run's values.
	code = app.Execute(nil)
	assert.Equal(t, 0, code)
	assert.True(t, !got.On)
	assert.Equal(t, 0, len(got.Extra))
}

func TestExecute_OmittedOptionRevertsToDefault(t *testing.T) {
	cmd, err := argh.New(greet)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute([]string{"--greeting", "Hi", "Ann"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hi, Ann!\n", out.String())

	out.Reset()
	code = app.Execute([]string{"Ann"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "Hello, Ann!\n", out.String())
}

func TestExecute_RequiredOption(t *testing.T) {
	type params struct {
		Token string `arg:"flag" desc:"API token"`
	}
	cmd, err := argh.New(func(a params) (any, error) { return a.Token, nil }, argh.WithName("auth"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.SetDefault(cmd)

	code := app.Execute(nil)
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "required flag")

	errw.Reset()
	code = app.Execute([]string{"--token", "s3cret"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "s3cret\n", out.String())
}

func TestExecute_Version(t *testing.T) {
	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw, argh.WithVersion("1.2.3"))

	code := app.Execute([]string{"--version"})
	assert.Equal(t, 0, code)
	assert.StringContains(t, out.String(), "1.2.3")
}

func TestExecute_Help(t *testing.T) {
	cmd, err := argh.New(greet, argh.WithHelp("Greet someone"))
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw, argh.WithDescription("demo app"))
	app.Add(cmd)

	code := app.Execute([]string{"--help"})
	assert.Equal(t, 0, code)
	assert.StringContains(t, out.String(), "demo app")
	assert.StringContains(t, out.String(), "greet")

	out.Reset()
	code = app.Execute([]string{"greet", "--help"})
	assert.Equal(t, 0, code)
	assert.StringContains(t, out.String(), "greeting to use")
}

func TestExecute_UserErrorMentionsHelp(t *testing.T) {
	cmd, err := argh.New(echo)
	vital.Nil(t, err)

	var out, errw bytes.Buffer
	app := newTestApp(t, &out, &errw)
	app.Add(cmd)

	code := app.Execute([]string{"echo"})
	assert.Equal(t, 1, code)
	assert.StringContains(t, errw.String(), "Run 'app echo --help' for usage.")
}
