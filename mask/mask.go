// Package mask - binary segmentation grids and their smoothing.
package mask

// Mask is a binary segmentation grid. One cell per grid element, value 0
// (background) or 1 (segmented). Mask resolution may be lower than the frame
// it describes; readers map frame coordinates onto the grid with floor-based
// nearest neighbor.
type Mask struct {
	W, H int
	// Bits holds W*H cells in row-major order. Values are 0 or 1.
	Bits []uint8
}

// New allocates a zeroed w x h mask.
func New(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{W: w, H: h, Bits: make([]uint8, w*h)}
}

// FromBits wraps an existing cell buffer. The buffer is not copied; it must
// hold w*h entries.
func FromBits(w, h int, bits []uint8) *Mask {
	return &Mask{W: w, H: h, Bits: bits}
}

// At returns the cell value at (x, y). Out-of-bounds reads return 0.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Bits[y*m.W+x]
}

// Set writes a cell. Non-zero values are stored as 1.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	if v != 0 {
		v = 1
	}
	m.Bits[y*m.W+x] = v
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := New(m.W, m.H)
	copy(out.Bits, m.Bits)
	return out
}

// Count returns the number of segmented (1) cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Bits {
		if v != 0 {
			n++
		}
	}
	return n
}

// SameSize reports whether two masks share dimensions.
func (m *Mask) SameSize(o *Mask) bool {
	return o != nil && m.W == o.W && m.H == o.H
}
