package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{"same key", Key{Code: 113, Phase: Down}, Key{Code: 113, Phase: Down}, true},
		{"different phase", Key{Code: 113, Phase: Down}, Key{Code: 113, Phase: Up}, false},
		{"different code", Key{Code: 113, Phase: Down}, Key{Code: 114, Phase: Down}, false},
		{"same button", MouseButton{Button: Left, Phase: Up}, MouseButton{Button: Left, Phase: Up}, true},
		{"different button", MouseButton{Button: Left, Phase: Up}, MouseButton{Button: Right, Phase: Up}, false},
		{"move", MouseMove{}, MouseMove{}, true},
		{"scroll", MouseScroll{}, MouseScroll{}, true},
		{"move vs scroll", MouseMove{}, MouseScroll{}, false},
		{"key vs button", Key{Code: 0, Phase: Down}, MouseButton{Button: Left, Phase: Down}, false},
		{"nil", nil, MouseMove{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestKeyUpPredicates(t *testing.T) {
	assert.True(t, IsKeyUp(Key{Code: 97, Phase: Up}))
	assert.False(t, IsKeyUp(Key{Code: 97, Phase: Down}))
	assert.False(t, IsKeyUp(MouseButton{Button: Left, Phase: Up}))

	assert.True(t, IsKeyUpExcept(Key{Code: 98, Phase: Up}, 97))
	assert.False(t, IsKeyUpExcept(Key{Code: 97, Phase: Up}, 97))
	assert.False(t, IsKeyUpExcept(Key{Code: 98, Phase: Down}, 97))
	assert.False(t, IsKeyUpExcept(MouseMove{}, 97))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "key(113).down", Key{Code: 113, Phase: Down}.String())
	assert.Equal(t, "mouse.right.up", MouseButton{Button: Right, Phase: Up}.String())
	assert.Equal(t, "move", MouseMove{}.String())
	assert.Equal(t, "scroll", MouseScroll{}.String())
	assert.Equal(t, "button", KindMouseButton.String())
}

func TestParse(t *testing.T) {
	p, err := ParsePhase("up")
	require.NoError(t, err)
	assert.Equal(t, Up, p)

	_, err = ParsePhase("sideways")
	assert.Error(t, err)

	b, err := ParseButton("middle")
	require.NoError(t, err)
	assert.Equal(t, Middle, b)

	_, err = ParseButton("fourth")
	assert.Error(t, err)
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	q := Point{X: 1, Y: 1}

	assert.Equal(t, Point{X: 4, Y: 5}, p.Add(q))
	assert.Equal(t, Point{X: 2, Y: 3}, p.Sub(q))
	assert.Equal(t, Point{X: 6, Y: 8}, p.Scale(2))
	assert.Equal(t, "(3,4)", p.String())
}
