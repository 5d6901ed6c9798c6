package carve

// removeSeam compacts every row of the buffer by dropping the single pixel
// the seam marks in it.
func removeSeam(src *Grid, seam Seam) *Grid {
	w, c := src.Width, src.Channels
	dst := NewGrid(w-1, src.Height, c)
	for y := 0; y < src.Height; y++ {
		cut := seam[y] * c
		in := src.Row(y)
		out := dst.Row(y)
		copy(out[:cut], in[:cut])
		copy(out[cut:], in[cut+c:])
	}
	return dst
}

// removeIndexSeam compacts the flat H×width index map by one column per row.
func removeIndexSeam(idx []int32, width int, seam Seam) []int32 {
	height := len(idx) / width
	dst := make([]int32, (width-1)*height)
	for y := 0; y < height; y++ {
		in := idx[y*width : y*width+width]
		out := dst[y*(width-1) : (y+1)*(width-1)]
		copy(out[:seam[y]], in[:seam[y]])
		copy(out[seam[y]:], in[seam[y]+1:])
	}
	return dst
}

// removeSeams drops every pixel the selection mask marks, num per row,
// using a per-row write cursor. The image and any side buffer carved with
// the same mask stay row-aligned.
func removeSeams(src *Grid, seams *Mask, num int) *Grid {
	w, c := src.Width, src.Channels
	dst := NewGrid(w-num, src.Height, c)
	for y := 0; y < src.Height; y++ {
		in := src.Row(y)
		out := dst.Row(y)
		marks := seams.Data[y*w : y*w+w]
		cur := 0
		for x := 0; x < w; x++ {
			if marks[x] {
				continue
			}
			copy(out[cur:cur+c], in[x*c:x*c+c])
			cur += c
		}
	}
	return dst
}

// insertSeams widens the buffer by num columns: immediately before every
// marked pixel a new one is synthesized as the mean of the marked pixel and
// its left neighbor (the pixel itself at the row start). The single pass per
// row interleaves original and synthesized samples, so simultaneous
// insertions keep their position relative to the original row layout.
func insertSeams(src *Grid, seams *Mask, num int) *Grid {
	w, c := src.Width, src.Channels
	dst := NewGrid(w+num, src.Height, c)
	for y := 0; y < src.Height; y++ {
		in := src.Row(y)
		out := dst.Row(y)
		marks := seams.Data[y*w : y*w+w]
		cur := 0
		for x := 0; x < w; x++ {
			if marks[x] {
				left := x - 1
				if left < 0 {
					left = 0
				}
				for ch := 0; ch < c; ch++ {
					out[cur] = (in[left*c+ch] + in[x*c+ch]) / 2
					cur++
				}
			}
			copy(out[cur:cur+c], in[x*c:x*c+c])
			cur += c
		}
	}
	return dst
}
