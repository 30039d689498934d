package common

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"unicode"
)

// KebabCase converts a Go field or function name to its command-line form:
// FooBar and foo_bar both become foo-bar.
func KebabCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune('-')
		case unicode.IsUpper(r):
			boundary := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FuncName returns the bare symbol name of fn, stripped of package path and
// method-value suffix. Returns "" when fn is not a function.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return ""
	}
	pc := runtime.FuncForPC(v.Pointer())
	if pc == nil {
		return ""
	}
	name := strings.TrimSuffix(pc.Name(), "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

var anonymousFunc = regexp.MustCompile(`^func\d+$`)

// IsAnonymousName reports whether name is a compiler-generated closure name
// (func1, func2, ...), i.e. useless as a command name.
func IsAnonymousName(name string) bool {
	return name == "" || anonymousFunc.MatchString(name)
}

// IsStructType reports whether t is a struct type.
func IsStructType(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct
}
