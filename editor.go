package keyframer

import (
	"context"
	"sync"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/config"
	"github.com/npillmayer/keyframer/document"
	"github.com/npillmayer/keyframer/preview"
	"github.com/npillmayer/keyframer/synth"
	"github.com/npillmayer/keyframer/timeline"
)

// Editor connects a document, a keyframe store and a preview surface.
type Editor struct {
	settings config.Settings
	surface  preview.Surface
	store    *animation.Store
	mu       sync.Mutex // guards doc and binder, held while binding
	doc      *document.Document
	binder   *preview.Binder
}

// New creates an editor without a document. Until Load is called, every
// element operation of the store is a no-op. Store options override the
// settings; tests use this to install a timeline.ManualScheduler.
func New(settings config.Settings, surface preview.Surface, opts ...animation.Option) *Editor {
	storeOpts := []animation.Option{
		animation.Duration(settings.Duration),
		animation.FrameStep(settings.FrameStep),
		animation.Scheduler(timeline.NewTickerScheduler(settings.FrameInterval)),
	}
	storeOpts = append(storeOpts, opts...)
	e := &Editor{
		settings: settings,
		surface:  surface,
		store:    animation.NewStore(storeOpts...),
	}
	e.store.Reset(nil)
	e.doc, _ = document.Load(nil)
	e.binder = e.newBinder(e.doc)
	return e
}

func (e *Editor) newBinder(doc *document.Document) *preview.Binder {
	return preview.NewBinder(doc, e.surface,
		preview.Viewport(e.settings.ViewportWidth, e.settings.ViewportHeight))
}

// Load replaces the document. All animations, the selection and the
// playback state are discarded.
func (e *Editor) Load(files []document.File) error {
	doc, err := document.Load(files, document.Preference(e.settings.IdentifierOrder...))
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.store.Reset(doc.Identifiers())
	e.doc = doc
	e.binder = e.newBinder(doc)
	e.mu.Unlock()
	tracer().Infof("editor loaded document %s", doc.ID)
	e.Refresh()
	return nil
}

// Store returns the keyframe store.
func (e *Editor) Store() *animation.Store {
	return e.store
}

// Document returns the current document.
func (e *Editor) Document() *document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// CSS returns the synthesized CSS for display.
func (e *Editor) CSS() string {
	st := e.store.Snapshot()
	return synth.Synthesize(st.Animations, st.Duration)
}

// Refresh binds the current state to the preview surface. It returns true
// if the surface received a frame.
func (e *Editor) Refresh() bool {
	return e.bind(false)
}

// Resend binds the current state even if the surface already received an
// identical frame. Surfaces call it when a new client attaches.
func (e *Editor) Resend() bool {
	return e.bind(true)
}

// Apply executes a command on the store.
func (e *Editor) Apply(cmd Command) error {
	return apply(e.store, cmd)
}

// Run binds every store change to the preview surface until ctx is done or
// the store is closed. Clock ticks only move the surface cursor. Other
// events bind the state current at the time of binding, which may be more
// recent than the event.
func (e *Editor) Run(ctx context.Context) error {
	events := e.store.Subscribe(64)
	e.Refresh()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Type == animation.EventTick {
				e.currentBinder().SetCursor(preview.PlaybackOf(event.State))
				continue
			}
			e.Refresh()
		}
	}
}

// Close stops playback and ends Run.
func (e *Editor) Close() {
	e.store.Close()
}

func (e *Editor) currentBinder() *preview.Binder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binder
}

// bind synthesizes the compact CSS of the current state and hands it to the
// binder. The snapshot is taken under e.mu, so state and document always
// belong together.
func (e *Editor) bind(invalidate bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.store.Snapshot()
	for _, name := range synth.CollisionNames(synth.Collisions(st.Animations)) {
		tracer().Errorf("keyframes rule name %s is shared by several elements", name)
	}
	if invalidate {
		e.binder.Invalidate()
	}
	css := synth.Synthesize(st.Animations, st.Duration, synth.Compact())
	return e.binder.Bind(css, preview.PlaybackOf(st))
}
