package mask

import "sync"

// Processor smooths per-frame segmentation masks. Raw model masks are noisy
// at boundaries: temporal blending reduces flicker between frames, spatial
// blurring reduces jagged edges, and re-binarizing keeps the result a clean
// {0,1} grid consumable by the outline tracer.
//
// The processor owns exactly one frame of history (the previous smoothed mask
// as float32) and is meant to be called from a single render goroutine.
type Processor struct {
	history      []float32
	histW, histH int

	// out is the reused result buffer; callers must consume it before the
	// next Process call.
	out *Mask

	// scratch reuses float buffers across frames to avoid per-frame
	// allocation at video rates.
	scratch sync.Pool
}

// NewProcessor returns a Processor with no history.
func NewProcessor() *Processor {
	return &Processor{}
}

// Reset invalidates the temporal history. Call on any source resolution
// change so stale buffers are never blended across incompatible dimensions.
func (p *Processor) Reset() {
	p.history = nil
	p.histW, p.histH = 0, 0
}

// Process applies temporal then spatial smoothing to a binary mask and
// returns a binary mask of the same dimensions.
//
// The single smoothing control (0-10) drives both stages: the temporal blend
// factor is smoothing/10 and the spatial pass count is smoothing/3 (floor).
// smoothing=0 disables both stages and passes the input through unchanged.
//
// The returned mask may alias an internal buffer reused on the next call.
func (p *Processor) Process(m *Mask, smoothing int) *Mask {
	if m == nil || m.W == 0 || m.H == 0 {
		return m
	}
	if smoothing < 0 {
		smoothing = 0
	}
	if smoothing > 10 {
		smoothing = 10
	}

	if smoothing == 0 {
		p.seedHistory(m)
		return m
	}

	out := p.temporal(m, smoothing)
	if iters := smoothing / 3; iters > 0 {
		out = p.spatial(out, iters)
	}
	return out
}

// seedHistory resets the history to the given mask, cast to float.
func (p *Processor) seedHistory(m *Mask) {
	n := m.W * m.H
	if len(p.history) != n {
		p.history = make([]float32, n)
	}
	for i, v := range m.Bits {
		p.history[i] = float32(v)
	}
	p.histW, p.histH = m.W, m.H
}

// temporal blends the current mask against the float history and
// re-binarizes at 0.5. A missing or size-mismatched history resets to the
// current mask and passes it through, so a camera resolution change never
// blends across incompatible buffers.
func (p *Processor) temporal(m *Mask, smoothing int) *Mask {
	n := m.W * m.H
	if p.histW != m.W || p.histH != m.H || len(p.history) != n {
		p.seedHistory(m)
		return m
	}

	factor := float32(smoothing) / 10
	out := p.result(m.W, m.H)
	for i, v := range m.Bits {
		blended := p.history[i]*factor + float32(v)*(1-factor)
		p.history[i] = blended
		if blended >= 0.5 {
			out.Bits[i] = 1
		} else {
			out.Bits[i] = 0
		}
	}
	return out
}

// spatial runs iters passes of a 3x3 mean filter. Border cells average only
// their in-bounds neighbors (reduced-count kernel). Intermediates stay
// float-valued between passes; the final pass re-binarizes at 0.5.
func (p *Processor) spatial(m *Mask, iters int) *Mask {
	n := m.W * m.H
	cur := p.getFloats(n)
	next := p.getFloats(n)
	defer p.putFloats(cur)
	defer p.putFloats(next)

	for i, v := range m.Bits {
		cur[i] = float32(v)
	}

	for it := 0; it < iters; it++ {
		for y := 0; y < m.H; y++ {
			for x := 0; x < m.W; x++ {
				var sum float32
				count := 0
				for dy := -1; dy <= 1; dy++ {
					ny := y + dy
					if ny < 0 || ny >= m.H {
						continue
					}
					row := ny * m.W
					for dx := -1; dx <= 1; dx++ {
						nx := x + dx
						if nx < 0 || nx >= m.W {
							continue
						}
						sum += cur[row+nx]
						count++
					}
				}
				next[y*m.W+x] = sum / float32(count)
			}
		}
		cur, next = next, cur
	}

	out := p.result(m.W, m.H)
	for i := range out.Bits {
		if cur[i] >= 0.5 {
			out.Bits[i] = 1
		} else {
			out.Bits[i] = 0
		}
	}
	return out
}

// result returns the reused output mask, reallocating on dimension change.
func (p *Processor) result(w, h int) *Mask {
	if p.out == nil || p.out.W != w || p.out.H != h {
		p.out = New(w, h)
	}
	return p.out
}

func (p *Processor) getFloats(n int) []float32 {
	if v := p.scratch.Get(); v != nil {
		buf := v.([]float32)
		if cap(buf) >= n {
			return buf[:n]
		}
	}
	return make([]float32, n)
}

func (p *Processor) putFloats(buf []float32) {
	// Skip clearing; the next user fully overwrites.
	p.scratch.Put(buf)
}
