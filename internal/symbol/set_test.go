package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_InsertContains(t *testing.T) {
	var s Set
	assert.True(t, s.Empty())

	s.Insert('a')
	s.Insert('c')

	assert.True(t, s.Contains('a'))
	assert.True(t, s.Contains('c'))
	assert.False(t, s.Contains('b'))
	assert.Equal(t, 2, s.Len())
}

func Test_Set_Complement(t *testing.T) {
	s := Range('a', 'z')
	comp := s.Complement()

	assert.False(t, comp.Contains('m'))
	assert.True(t, comp.Contains('0'))
	assert.Equal(t, 256-26, comp.Len())
}

func Test_Set_Dot_ExcludesNewlineOnly(t *testing.T) {
	d := Dot()

	assert.False(t, d.Contains('\n'))
	assert.True(t, d.Contains('\r'))
	assert.True(t, d.Contains('a'))
	assert.Equal(t, 255, d.Len())
	assert.True(t, d.IsDot())
}

func Test_Set_Equal(t *testing.T) {
	a := New('x', 'y', 'z')
	b := New('z', 'y', 'x')
	c := New('x', 'y')

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func Test_Set_String_CollapsesRanges(t *testing.T) {
	s := Range('0', '9')
	assert.Equal(t, "[0-9]", s.String())
}

func Test_Set_Remove(t *testing.T) {
	s := Range('a', 'c')
	s.Remove('b')

	assert.True(t, s.Contains('a'))
	assert.False(t, s.Contains('b'))
	assert.True(t, s.Contains('c'))
	assert.Equal(t, 2, s.Len())
}
