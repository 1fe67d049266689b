// Package player advances through the frames of a decoded document as
// wall-clock time passes.
package player

import (
	"time"

	"github.com/ostafen/giflet/internal/format"
)

// Player tracks the current frame of a document. It must not be ticked
// from more than one goroutine at a time.
type Player struct {
	doc     *format.Document
	total   time.Duration
	index   int
	elapsed time.Duration
	looping bool
}

// New returns a Player positioned on the first frame of doc.
func New(doc *format.Document, looping bool) *Player {
	return &Player{
		doc:     doc,
		total:   doc.Duration(),
		looping: looping,
	}
}

// Tick accounts for d more time spent on the current frame, moving forward
// as long as the accumulated time covers the current frame's delay.
func (p *Player) Tick(d time.Duration) {
	if d <= 0 || !p.Animated() || p.Finished() {
		return
	}
	p.elapsed += d

	if p.total == 0 {
		p.elapsed = 0
		p.advance()
		return
	}

	if p.looping && p.elapsed >= p.total {
		p.elapsed %= p.total
	}

	for !p.Finished() {
		delay := p.doc.Frames[p.index].Delay
		if p.elapsed < delay {
			return
		}
		p.elapsed -= delay
		p.advance()
	}
	// held on the last frame
	p.elapsed = 0
}

func (p *Player) advance() {
	if p.index+1 < len(p.doc.Frames) {
		p.index++
	} else if p.looping {
		p.index = 0
	}
}

// Current returns the frame to display.
func (p *Player) Current() *format.Frame {
	return &p.doc.Frames[p.index]
}

func (p *Player) Index() int {
	return p.index
}

// Elapsed returns the time spent on the current frame so far.
func (p *Player) Elapsed() time.Duration {
	return p.elapsed
}

func (p *Player) Looping() bool {
	return p.looping
}

func (p *Player) SetLooping(looping bool) {
	p.looping = looping
}

// Reset rewinds to the first frame.
func (p *Player) Reset() {
	p.index = 0
	p.elapsed = 0
}

// Animated reports whether the document has more than one frame.
func (p *Player) Animated() bool {
	return len(p.doc.Frames) > 1
}

// Finished reports whether a non-looping animation has reached its last frame.
func (p *Player) Finished() bool {
	return !p.looping && p.index == len(p.doc.Frames)-1
}
