// Package argh turns plain Go functions into command-line commands without
// hand-built parsers.
//
// A command's parameters are described by a struct: required positionals,
// defaulted options, boolean toggles, a varargs collector and a keyword
// collector are all derived from field types and tags. Parsing itself, help
// text, shell completion and subcommand bookkeeping are delegated to
// spf13/cobra; this library only analyzes signatures, binds parsed values and
// renders command results to the output sink.
package argh

//go:generate gomarkdoc ./ -o docs/argh.md
