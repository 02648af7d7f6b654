package pose

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/ayusman/posejump/internal/detector"
)

// Snapshot is one published detection result. It is never modified after
// publication, so readers may keep it across game frames.
type Snapshot struct {
	Frame     image.Image
	Lines     []detector.PoseLine
	Seq       uint64
	Timestamp time.Time
}

// Handoff is a single-slot, overwrite-on-publish cell between the detection
// goroutine and its readers. Readers always get the most recent snapshot and
// never block.
type Handoff struct {
	latest atomic.Pointer[Snapshot]
	seq    atomic.Uint64
}

// NewHandoff creates an empty Handoff.
func NewHandoff() *Handoff {
	return &Handoff{}
}

// Publish replaces the current snapshot. The caller must not modify frame or
// lines afterwards.
func (h *Handoff) Publish(frame image.Image, lines []detector.PoseLine) {
	h.latest.Store(&Snapshot{
		Frame:     frame,
		Lines:     lines,
		Seq:       h.seq.Add(1),
		Timestamp: time.Now(),
	})
}

// TryTake returns the most recent snapshot, or false if nothing has been
// published yet. The snapshot stays in place for later readers.
func (h *Handoff) TryTake() (Snapshot, bool) {
	s := h.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}
