package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtOutOfBounds(t *testing.T) {
	m := New(3, 3)
	m.Set(1, 1, 1)

	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{name: "inside", x: 1, y: 1, want: 1},
		{name: "negative x", x: -1, y: 1, want: 0},
		{name: "negative y", x: 1, y: -1, want: 0},
		{name: "past right edge", x: 3, y: 1, want: 0},
		{name: "past bottom edge", x: 1, y: 3, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.At(tt.x, tt.y))
		})
	}
}

func TestSetNormalizes(t *testing.T) {
	m := New(2, 2)
	m.Set(0, 0, 255)
	m.Set(1, 0, 7)
	m.Set(0, 1, 0)

	assert.Equal(t, uint8(1), m.At(0, 0))
	assert.Equal(t, uint8(1), m.At(1, 0))
	assert.Equal(t, uint8(0), m.At(0, 1))

	// Out-of-bounds writes are dropped.
	m.Set(5, 5, 1)
	assert.Equal(t, 2, m.Count())
}

func TestCloneIsDeep(t *testing.T) {
	m := FromBits(2, 1, []uint8{1, 0})
	c := m.Clone()
	c.Set(1, 0, 1)

	assert.Equal(t, uint8(0), m.At(1, 0))
	assert.Equal(t, uint8(1), c.At(1, 0))
}

func TestSameSize(t *testing.T) {
	a := New(4, 3)
	assert.True(t, a.SameSize(New(4, 3)))
	assert.False(t, a.SameSize(New(3, 4)))
	assert.False(t, a.SameSize(nil))
}
