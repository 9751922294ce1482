package folio

import (
	"sync"
	"time"
)

// DefaultCloseTransition matches the panel's CSS closing animation; the
// fallback timer fires if the completion signal never arrives.
const DefaultCloseTransition = 400 * time.Millisecond

// Panel models the detail overlay: one view open at a time, with a
// deferred teardown when closing.
type Panel struct {
	mu         sync.Mutex
	transition time.Duration
	onTeardown func()
	view       *DetailView
	closing    *closeOp
}

// closeOp is one pending teardown. Whichever of the completion signal and
// the fallback timer comes first runs it; the other is a no-op.
type closeOp struct {
	once  sync.Once
	timer *time.Timer
	done  chan struct{}
}

// NewPanel creates a panel. A positive transition defers teardown until
// TransitionEnd is called or the transition elapses. onTeardown, if set,
// runs exactly once per close.
func NewPanel(transition time.Duration, onTeardown func()) *Panel {
	return &Panel{transition: transition, onTeardown: onTeardown}
}

// Open shows view. A close still in progress is completed first.
func (p *Panel) Open(view DetailView) {
	p.mu.Lock()
	pending := p.closing
	p.closing = nil
	p.view = &view
	p.mu.Unlock()

	if pending != nil {
		p.finish(pending)
	}
}

// Close clears the panel body and starts teardown. The returned channel is
// closed once teardown has run. Closing an already closed panel returns a
// closed channel.
func (p *Panel) Close() <-chan struct{} {
	p.mu.Lock()
	if p.view == nil && p.closing == nil {
		p.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}
	if p.closing != nil {
		done := p.closing.done
		p.mu.Unlock()
		return done
	}

	p.view = nil
	op := &closeOp{done: make(chan struct{})}
	if p.transition <= 0 {
		p.mu.Unlock()
		p.finish(op)
		return op.done
	}
	p.closing = op
	op.timer = time.AfterFunc(p.transition, func() { p.finish(op) })
	p.mu.Unlock()
	return op.done
}

// TransitionEnd signals that the closing transition completed.
func (p *Panel) TransitionEnd() {
	p.mu.Lock()
	op := p.closing
	p.mu.Unlock()
	if op != nil {
		p.finish(op)
	}
}

// finish runs the teardown of op exactly once.
func (p *Panel) finish(op *closeOp) {
	op.once.Do(func() {
		if op.timer != nil {
			op.timer.Stop()
		}
		p.mu.Lock()
		if p.closing == op {
			p.closing = nil
		}
		p.mu.Unlock()
		if p.onTeardown != nil {
			p.onTeardown()
		}
		close(op.done)
	})
}

// IsOpen reports whether a view is shown.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view != nil
}

// IsClosing reports whether a teardown is pending.
func (p *Panel) IsClosing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closing != nil
}

// View returns the shown view.
func (p *Panel) View() (DetailView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == nil {
		return DetailView{}, false
	}
	return *p.view, true
}

// LightboxState is the visible state of the lightbox.
type LightboxState struct {
	Src     string
	Caption string
	Open    bool
}

// Lightbox models the full-screen image overlay.
type Lightbox struct {
	mu    sync.Mutex
	state LightboxState
}

// Open shows src with caption.
func (l *Lightbox) Open(src, caption string) {
	l.mu.Lock()
	l.state = LightboxState{Src: src, Caption: caption, Open: true}
	l.mu.Unlock()
}

// Close hides the lightbox and clears its image.
func (l *Lightbox) Close() {
	l.mu.Lock()
	l.state = LightboxState{}
	l.mu.Unlock()
}

// Current returns the lightbox state.
func (l *Lightbox) Current() LightboxState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
