package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		en = NewEdgeKey([2]int{100, 100001})
		assert.Equal(t, EdgeKey(100001*(1<<32)+100), en)
		assert.Equal(t, [2]int{100, 100001}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1, 1<<32 - 1})
		assert.Equal(t, EdgeKey((1<<32-1)<<32+1), en)
		assert.Equal(t, [2]int{1, 1<<32 - 1}, en.GetVertices(false))

		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 3}) })
	}
	{ // Face keys ignore loop start and orientation
		f1 := NewFaceKey([]int{4, 7, 2, 9})
		f2 := NewFaceKey([]int{9, 2, 7, 4})
		f3 := NewFaceKey([]int{2, 7, 9, 4})
		assert.Equal(t, f1, f2)
		assert.Equal(t, f1, f3)
		assert.Equal(t, FaceKey("2:4:7:9"), f1)
		assert.Equal(t, []int{2, 4, 7, 9}, f1.GetVertices())
		assert.NotEqual(t, f1, NewFaceKey([]int{2, 4, 7}))
	}
}
