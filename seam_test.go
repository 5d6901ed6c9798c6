package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertConnected verifies a seam holds one column per row with unit steps.
func assertConnected(t *testing.T, seam Seam, width, height int) {
	t.Helper()
	assert.Len(t, seam, height)
	for r, c := range seam {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, width)
		if r > 0 {
			diff := seam[r] - seam[r-1]
			assert.LessOrEqual(t, diff, 1)
			assert.GreaterOrEqual(t, diff, -1)
		}
	}
}

func TestSeam_BackwardUniformPicksLeftmost(t *testing.T) {
	energy := NewGrid(7, 5, 1)
	seam := backwardSeam(energy)

	for _, c := range seam {
		assert.Equal(t, 0, c)
	}
}

func TestSeam_BackwardIsConnected(t *testing.T) {
	gray := randomGrid(16, 12, 1, 11)
	energy := gradientEnergy(gray)

	seam := backwardSeam(energy)
	assertConnected(t, seam, 16, 12)
}

func TestSeam_BackwardAvoidsBrightColumn(t *testing.T) {
	gray := NewGrid(10, 10, 1)
	for y := 0; y < 10; y++ {
		gray.Set(5, y, 0, 255)
	}

	seam := backwardSeam(gradientEnergy(gray))
	assertConnected(t, seam, 10, 10)
	for _, c := range seam {
		assert.NotContains(t, []int{4, 5, 6}, c)
	}
}

func TestSeam_BackwardFollowsCheapColumn(t *testing.T) {
	energy := NewGrid(9, 6, 1)
	for i := range energy.Data {
		energy.Data[i] = 10
	}
	for y := 0; y < 6; y++ {
		energy.Set(4, y, 0, 0)
	}

	seam := backwardSeam(energy)
	for _, c := range seam {
		assert.Equal(t, 4, c)
	}
}

func TestSeam_ForwardUniformPicksLeftmost(t *testing.T) {
	gray := NewGrid(7, 5, 1)
	seam := forwardSeam(gray, nil)

	for _, c := range seam {
		assert.Equal(t, 0, c)
	}
}

func TestSeam_ForwardIsConnected(t *testing.T) {
	gray := randomGrid(16, 12, 1, 13)
	seam := forwardSeam(gray, nil)
	assertConnected(t, seam, 16, 12)
}

func TestSeam_ForwardAvoidsBrightColumn(t *testing.T) {
	gray := NewGrid(10, 10, 1)
	for y := 0; y < 10; y++ {
		gray.Set(5, y, 0, 255)
	}

	seam := forwardSeam(gray, nil)
	assertConnected(t, seam, 10, 10)
	for _, c := range seam {
		assert.NotContains(t, []int{4, 5, 6}, c)
	}
}

func TestSeam_ForwardHonorsBias(t *testing.T) {
	gray := NewGrid(8, 6, 1)
	aux := NewGrid(8, 6, 1)
	for y := 0; y < 6; y++ {
		aux.Set(6, y, 0, -dropMaskEnergy)
	}

	seam := forwardSeam(gray, aux)
	assertConnected(t, seam, 8, 6)
	for r := 1; r < 6; r++ {
		assert.Equal(t, 6, seam[r])
	}
}
