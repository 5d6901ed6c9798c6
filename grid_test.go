package carve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// randomGrid fills a buffer with deterministic pseudo-random samples.
func randomGrid(w, h, c int, seed int64) *Grid {
	rng := rand.New(rand.NewSource(seed))
	g := NewGrid(w, h, c)
	for i := range g.Data {
		g.Data[i] = float64(rng.Intn(256))
	}
	return g
}

func TestGrid_GrayLuminance(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(1, 1, 3)
	g.Set(0, 0, 0, 100)
	g.Set(0, 0, 1, 50)
	g.Set(0, 0, 2, 200)

	gray := g.Gray()
	assert.Equal(1, gray.Channels)
	assert.InDelta(0.2125*100+0.7154*50+0.0721*200, gray.At(0, 0, 0), 1e-12)
}

func TestGrid_GrayPassesThroughSingleChannel(t *testing.T) {
	g := randomGrid(4, 3, 1, 1)
	assert.Same(t, g, g.Gray())
}

func TestGrid_TransposeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	g := randomGrid(5, 3, 3, 2)
	tr := g.Transpose()

	assert.Equal(g.Height, tr.Width)
	assert.Equal(g.Width, tr.Height)
	assert.Equal(g.At(4, 2, 1), tr.At(2, 4, 1))
	assert.Equal(g.Data, tr.Transpose().Data)
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	assert := assert.New(t)

	g := randomGrid(4, 4, 1, 3)
	c := g.Clone()
	c.Set(0, 0, 0, -1)

	assert.NotEqual(g.At(0, 0, 0), c.At(0, 0, 0))
}

func TestGrid_ValidateRejectsEmptyBuffers(t *testing.T) {
	assert := assert.New(t)

	var g *Grid
	assert.ErrorIs(g.validate(), ErrInvalidShape)

	bad := &Grid{Width: 0, Height: 3, Channels: 1}
	assert.ErrorIs(bad.validate(), ErrInvalidShape)

	mismatch := &Grid{Width: 2, Height: 2, Channels: 1, Data: make([]float64, 3)}
	assert.ErrorIs(mismatch.validate(), ErrInvalidShape)
}

func TestGrid_MaskTranspose(t *testing.T) {
	assert := assert.New(t)

	m := NewMask(3, 2)
	m.Set(2, 1, true)
	tr := m.Transpose()

	assert.Equal(2, tr.Width)
	assert.Equal(3, tr.Height)
	assert.True(tr.At(1, 2))
}
