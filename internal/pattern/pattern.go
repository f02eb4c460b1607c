// Package pattern compiles the textual gesture syntax used in configuration
// files into recognizer prototypes.
//
// Grammar:
//
//	expr    := seq ('|' seq)*
//	seq     := postfix+
//	postfix := primary ('*' | '?' | '[' action ']')*
//	primary := atom | '(' expr ')'
//	         | 'chord' '(' key ['[' action ']'] ',' expr ')'
//	         | 'until' '(' expr ',' expr ')'
//	         | 'keys' '(' expr ')'
//	atom    := key ['.' ('down' | 'up')]
//	         | 'mouse' '.' ('left' | 'middle' | 'right') ['.' ('down' | 'up')]
//	         | 'move' | 'scroll'
//	key     := NAME | '#' CODE
//
// Juxtaposition is Concat, '|' is Either, '*' is Repeat, '?' is Maybe and
// '[name]' attaches the named action as the handler of what precedes it.
// A key or button without a phase means its press.
//
//	chord(L[begin], move[extend]*)[finish]
//	keys(ESCAPE ESCAPE)[quit]
//	until(mouse.left move*, mouse.left.up)[stroke]
package pattern

import (
	"fmt"

	"interact/internal/recognizer"
)

// Resolver maps an action name to its handler. The second result reports
// whether the name is known; a known action may have a nil handler.
type Resolver func(name string) (recognizer.Handler, bool)

// Actions is a fixed set of named handlers.
type Actions map[string]recognizer.Handler

// Resolve looks name up in a.
func (a Actions) Resolve(name string) (recognizer.Handler, bool) {
	h, ok := a[name]
	return h, ok
}

// AnyAction accepts every action name and binds it to no handler. It is
// used to check pattern syntax without the application's actions.
func AnyAction(string) (recognizer.Handler, bool) {
	return nil, true
}

// SyntaxError reports a malformed pattern. Pos is a byte offset into the
// source.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern: offset %d: %s", e.Pos, e.Msg)
}

// Compile parses src into a recognizer prototype. A nil resolve rejects
// every action.
func Compile(src string, resolve Resolver) (recognizer.Recognizer, error) {
	return NewParser(src, resolve).Parse()
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, resolve Resolver) recognizer.Recognizer {
	r, err := Compile(src, resolve)
	if err != nil {
		panic(err)
	}
	return r
}

// Check reports whether src is a well-formed pattern, ignoring which
// actions exist.
func Check(src string) error {
	_, err := Compile(src, AnyAction)
	return err
}

// ActionNames returns the action names referenced by src in order of
// appearance, without duplicates.
func ActionNames(src string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	collect := func(name string) (recognizer.Handler, bool) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil, true
	}
	if _, err := Compile(src, collect); err != nil {
		return nil, err
	}
	return names, nil
}
