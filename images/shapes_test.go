package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 15, 15}, Rect{5, 5, 10, 10}},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 4, 4}, Rect{2, 2, 4, 4}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 30, 30}, Rect{}},
		{"touching edges", Rect{0, 0, 10, 10}, Rect{10, 0, 20, 10}, Rect{}},
		{"negative origin", Rect{-34, 4, 6, 60}, Rect{0, 0, 10, 10}, Rect{0, 4, 6, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersect(tt.b))
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRectWH(2, 3, 4, 5)
	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 5, r.Height())

	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 7))
	assert.False(t, r.Contains(6, 7), "X2 is exclusive")
	assert.False(t, r.Contains(5, 8), "Y2 is exclusive")
	assert.False(t, r.Contains(1, 3))
}

func TestRectToRectangle(t *testing.T) {
	assert.Equal(t, image.Rect(1, 2, 3, 4), Rect{3, 4, 1, 2}.ToRectangle())
	assert.True(t, Rect{}.Empty())
}
