package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRect(t *testing.T) {
	t.Parallel()

	want := Rect{Left: 10, Top: 20, Right: 110, Bottom: 220}
	testCases := []struct {
		name           string
		x1, y1, x2, y2 float64
	}{
		{"down-right", 10, 20, 110, 220},
		{"up-left", 110, 220, 10, 20},
		{"down-left", 110, 20, 10, 220},
		{"up-right", 10, 220, 110, 20},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, NormalizeRect(tc.x1, tc.y1, tc.x2, tc.y2))
		})
	}
}

func TestRectsIntersect(t *testing.T) {
	t.Parallel()

	a := Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	assert.True(t, RectsIntersect(a, Rect{Left: 50, Top: 50, Right: 150, Bottom: 150}))
	assert.True(t, RectsIntersect(a, Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}))
	// touching edges do not overlap
	assert.False(t, RectsIntersect(a, Rect{Left: 100, Top: 0, Right: 200, Bottom: 100}))
	assert.False(t, RectsIntersect(a, Rect{Left: 0, Top: 100, Right: 100, Bottom: 200}))
	assert.False(t, RectsIntersect(a, Rect{Left: 200, Top: 200, Right: 300, Bottom: 300}))
}

func TestBoxRect(t *testing.T) {
	t.Parallel()

	b := NewBox(NewPoint(10, 20), 30, 40)
	assert.Equal(t, Rect{Left: 10, Top: 20, Right: 40, Bottom: 60}, b.Rect())
	assert.Equal(t, NewPoint(25, 40), b.Center())
	assert.True(t, b.Contains(NewPoint(10, 20)))
	assert.False(t, b.ContainsStrict(NewPoint(10, 20), 0.001))
	assert.True(t, b.ContainsStrict(NewPoint(11, 21), 0.001))

	inflated := b.Inflate(5)
	assert.Equal(t, Rect{Left: 5, Top: 15, Right: 45, Bottom: 65}, inflated.Rect())
	assert.Equal(t, b.Rect(), inflated.Rect().Box().Inflate(-5).Rect())
}
