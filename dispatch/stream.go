package dispatch

import "io"

// Stream is a pull-based producer of output items. The dispatcher drives it to
// exhaustion on the calling goroutine, emitting each item as one line before
// requesting the next, so output already produced survives a later failure.
//
// The contract follows bufio.Scanner: Next reports whether an item is
// available via Item; once Next returns false, Err returns the failure that
// stopped production, or nil on normal exhaustion.
type Stream interface {
	Next() bool
	Item() any
	Err() error
}

type sliceStream struct {
	items []any
	pos   int
}

// FromSlice returns a Stream over the given items.
func FromSlice(items ...any) Stream { return &sliceStream{items: items} }

// FromStrings returns a Stream over the given lines.
func FromStrings(lines ...string) Stream {
	items := make([]any, len(lines))
	for i, s := range lines {
		items[i] = s
	}
	return &sliceStream{items: items}
}

func (s *sliceStream) Next() bool {
	if s.pos >= len(s.items) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) Item() any { return s.items[s.pos-1] }
func (s *sliceStream) Err() error { return nil }

type funcStream struct {
	fn   func() (any, error)
	item any
	err  error
}

// FromFunc adapts a generator function into a Stream. The function is called
// once per item; it signals exhaustion by returning io.EOF and failure by
// returning any other error.
func FromFunc(fn func() (any, error)) Stream { return &funcStream{fn: fn} }

func (s *funcStream) Next() bool {
	if s.fn == nil || s.err != nil {
		return false
	}
	item, err := s.fn()
	if err == io.EOF {
		s.fn = nil
		return false
	}
	if err != nil {
		s.err = err
		s.fn = nil
		return false
	}
	s.item = item
	return true
}

func (s *funcStream) Item() any { return s.item }
func (s *funcStream) Err() error { return s.err }
