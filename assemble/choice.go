package assemble

import (
	"fmt"
	"strings"

	"github.com/mathieulongtin/argh/core"
)

// choiceValue is a pflag.Value that restricts an option to a fixed set of
// values. The underlying value is kept in string form; typed retrieval goes
// through core.ParseValue like every other flag.
type choiceValue struct {
	arg core.Argument
	val string
}

func newChoiceValue(arg core.Argument) *choiceValue {
	v := &choiceValue{arg: arg}
	if arg.Default != nil {
		v.val = fmt.Sprint(arg.Default)
	}
	return v
}

func (v *choiceValue) Set(s string) error {
	for _, c := range v.arg.Choices {
		if c == s {
			if _, err := core.ParseValue(v.arg.Type, s); err != nil {
				return err
			}
			v.val = s
			return nil
		}
	}
	return fmt.Errorf("invalid choice %q (choose from %s)", s, strings.Join(v.arg.Choices, ", "))
}

func (v *choiceValue) String() string { return v.val }
func (v *choiceValue) Type() string   { return v.arg.Type.String() }
