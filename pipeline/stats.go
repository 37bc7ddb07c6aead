package pipeline

import "time"

// Stats tracks render throughput and per-frame latency. FPS is recomputed
// once per elapsed second from the frames observed in that window.
type Stats struct {
	// TotalFrames counts every rendered frame since start.
	TotalFrames int
	// CurrentFPS is the most recent frames-per-second measurement.
	CurrentFPS float64
	// LastFrameTime is the processing time of the most recent frame.
	LastFrameTime time.Duration

	windowStart  time.Time
	windowFrames int
}

func (st *Stats) observe(frameTime time.Duration) {
	now := time.Now()
	if st.windowStart.IsZero() {
		st.windowStart = now
	}

	st.TotalFrames++
	st.windowFrames++
	st.LastFrameTime = frameTime

	elapsed := now.Sub(st.windowStart).Seconds()
	if elapsed >= 1.0 {
		st.CurrentFPS = float64(st.windowFrames) / elapsed
		st.windowFrames = 0
		st.windowStart = now
	}
}
