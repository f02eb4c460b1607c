package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interact/internal/event"
	"interact/internal/keys"
	"interact/internal/recognizer"
)

func TestLexer(t *testing.T) {
	l := NewLexer("chord(L[go], #65307.up)* | ?")

	var got []Token
	for {
		tok := l.NextToken()
		got = append(got, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	want := []Token{
		{TokenIdent, "chord", 0},
		{TokenLParen, "(", 5},
		{TokenIdent, "L", 6},
		{TokenLBracket, "[", 7},
		{TokenIdent, "go", 8},
		{TokenRBracket, "]", 10},
		{TokenComma, ",", 11},
		{TokenCode, "65307", 13},
		{TokenDot, ".", 19},
		{TokenIdent, "up", 20},
		{TokenRParen, ")", 22},
		{TokenStar, "*", 23},
		{TokenPipe, "|", 25},
		{TokenQuestion, "?", 27},
		{TokenEOF, "", 28},
	}
	assert.Equal(t, want, got)
}

func TestLexerErrors(t *testing.T) {
	tok := NewLexer("&").NextToken()
	assert.Equal(t, TokenError, tok.Type)

	tok = NewLexer("#x").NextToken()
	assert.Equal(t, TokenError, tok.Type)
	assert.Equal(t, 0, tok.Pos)
}

func TestCompileStructure(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a", "#97.down"},
		{"a.up", "#97.up"},
		{"A.DOWN", "#97.down"},
		{"escape", "#65307.down"},
		{"#65307.up", "#65307.up"},
		{"mouse.left.up", "mouse.left.up"},
		{"mouse.right", "mouse.right.down"},
		{"move", "move"},
		{"scroll?", "scroll?"},
		{"move**", "move**"},
		{"a b c", "(#97.down #98.down #99.down)"},
		{"(a b) c", "(#97.down #98.down #99.down)"},
		{"a | b", "(#97.down | #98.down)"},
		{"a b | c", "((#97.down #98.down) | #99.down)"},
		{"(a | b) c", "((#97.down | #98.down) #99.down)"},
		{"until(move, mouse.left.up)", "until(move, mouse.left.up)"},
		{"keys(a b)", "ignore((#97.down #98.down))"},
		{"chord(l, move*)", "(#108.down ignore(until(move, #108.up)))"},
		{"chord(l, a)", "(#108.down ignore(#97.down) #108.up)"},
		{"  a\n\tb  ", "(#97.down #98.down)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			r, err := Compile(tt.src, AnyAction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src string
		pos int
		msg string
	}{
		{"", 0, "empty pattern"},
		{"a |", 3, "unexpected end of pattern"},
		{"nokey", 0, `unknown key "nokey"`},
		{"mouse.thumb", 6, `unknown mouse button "thumb"`},
		{"a.sideways", 2, `expected down or up, found "sideways"`},
		{"a[missing]", 2, `unknown action "missing"`},
		{"(a b", 4, "unexpected end of pattern"},
		{"a )", 2, `unexpected ")"`},
		{"a & b", 2, "unexpected character '&'"},
		{"#x", 0, "expected digits after '#'"},
		{"chord(a b)", 8, `unexpected "b"`},
		{"until(a)", 7, `unexpected ")"`},
		{"keys a", 5, `unexpected "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Compile(tt.src, Actions{}.Resolve)
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se), "%T", err)
			assert.Equal(t, tt.pos, se.Pos)
			assert.Equal(t, tt.msg, se.Msg)
		})
	}
}

func TestNilResolverRejectsActions(t *testing.T) {
	_, err := Compile("a[quit]", nil)
	assert.Error(t, err)

	_, err = Compile("a", nil)
	assert.NoError(t, err)
}

func feed(r recognizer.Recognizer, events ...event.Event) []recognizer.Outcome {
	in := recognizer.Fresh(r)
	out := make([]recognizer.Outcome, len(events))
	for i, e := range events {
		out[i] = in.Recognize(e, event.State{})
	}
	return out
}

func key(code int, phase event.Phase) event.Event {
	return event.Key{Code: code, Phase: phase}
}

func TestCompiledActionsFire(t *testing.T) {
	quits := 0
	actions := Actions{
		"quit": func(event.State) { quits++ },
	}

	r, err := Compile("keys(ESCAPE ESCAPE)[quit]", actions.Resolve)
	require.NoError(t, err)

	out := feed(r,
		key(keys.Escape, event.Down),
		key(keys.Escape, event.Up),
		key(keys.Escape, event.Down))

	assert.Equal(t, []recognizer.Outcome{recognizer.Active, recognizer.Active, recognizer.Success}, out)
	assert.Equal(t, 1, quits)
}

func TestCompiledChord(t *testing.T) {
	counts := map[string]int{}
	actions := Actions{}
	for _, name := range []string{"begin", "extend", "finish"} {
		name := name
		actions[name] = func(event.State) { counts[name]++ }
	}

	r := MustCompile("chord(l[begin], move[extend]*)[finish]", actions.Resolve)
	out := feed(r,
		key(keys.L, event.Down),
		key(keys.A, event.Up),
		event.MouseMove{},
		event.MouseMove{},
		key(keys.L, event.Up))

	assert.Equal(t, recognizer.Success, out[len(out)-1])
	for _, o := range out[:len(out)-1] {
		assert.Equal(t, recognizer.Active, o)
	}
	assert.Equal(t, map[string]int{"begin": 1, "extend": 2, "finish": 1}, counts)
}

func TestCompiledStroke(t *testing.T) {
	strokes := 0
	r := MustCompile("until(mouse.left move*, mouse.left.up)[stroke]", Actions{
		"stroke": func(event.State) { strokes++ },
	}.Resolve)

	out := feed(r,
		event.MouseButton{Button: event.Left, Phase: event.Down},
		event.MouseMove{},
		event.MouseButton{Button: event.Left, Phase: event.Up})

	assert.Equal(t, []recognizer.Outcome{recognizer.Active, recognizer.Active, recognizer.Success}, out)
	assert.Equal(t, 1, strokes)
}

func TestKnownActionWithoutHandler(t *testing.T) {
	r, err := Compile("a[noop]", Actions{"noop": nil}.Resolve)
	require.NoError(t, err)
	assert.Equal(t, []recognizer.Outcome{recognizer.Success}, feed(r, key(keys.A, event.Down)))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("a[anything] b[else]"))
	assert.Error(t, Check("a |"))
}

func TestActionNames(t *testing.T) {
	names, err := ActionNames("chord(l[begin], move[extend]*)[finish] | a[begin]")
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "extend", "finish"}, names)

	_, err = ActionNames("(")
	assert.Error(t, err)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile("a |", nil)
	})
}
