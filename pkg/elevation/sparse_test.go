package elevation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseSetGet(t *testing.T) {
	s := NewSparse(3)
	s.Process()
	assert.Equal(t, Invalid, s.Get(1))

	s.Set(1, 50)
	s.Set(2, -935)
	s.Set(3, 3553)
	s.Process()

	assert.Equal(t, int16(50), s.Get(1))
	assert.Equal(t, int16(-935), s.Get(2))
	assert.Equal(t, int16(3553), s.Get(3))
	assert.Equal(t, Invalid, s.Get(100))
}

func TestSparseLastWriteWins(t *testing.T) {
	s := NewSparse(0)
	s.Set(7, 10)
	s.Set(3, 1)
	s.Set(7, 20)
	s.Process()
	s.Set(7, 30)
	s.Set(7, Invalid)
	s.Process()

	assert.Equal(t, int16(30), s.Get(7))
	assert.Equal(t, int16(1), s.Get(3))
	assert.Equal(t, 2, s.Len())
}
