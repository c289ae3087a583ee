package keyframer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/keyframer/animation"
	"github.com/npillmayer/keyframer/config"
	"github.com/npillmayer/keyframer/document"
	"github.com/npillmayer/keyframer/preview"
	"github.com/npillmayer/keyframer/timeline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head></head><body><div id="box"></div><p class="hero-title">x</p></body></html>`

func newEditor(t *testing.T) (*Editor, *preview.MemorySurface, *timeline.ManualScheduler) {
	surface := preview.NewMemorySurface()
	sched := timeline.NewManualScheduler()
	settings := config.Default()
	settings.Duration = 2000
	e := New(settings, surface, animation.Scheduler(sched))
	err := e.Load([]document.File{{Name: "index.html", Content: page, MimeType: "text/html"}})
	require.NoError(t, err)
	return e, surface, sched
}

func TestEditorLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer")
	defer teardown()
	//
	e, surface, _ := newEditor(t)
	defer e.Close()
	assert.Equal(t, []string{"box", "hero-title"}, e.Document().Identifiers())
	frames := surface.Frames()
	require.Len(t, frames, 1, "loading binds the fresh document")
	assert.Equal(t, e.Document().ID, frames[0].DocumentID)
	_, ok := e.Store().AddKeyframe("unknown", 0)
	assert.False(t, ok)
}

func TestEditorWithoutDocument(t *testing.T) {
	e := New(config.Default(), preview.NewMemorySurface(), animation.Scheduler(timeline.NewManualScheduler()))
	defer e.Close()
	assert.True(t, e.Document().Empty())
	require.NoError(t, e.Apply(Command{Op: OpAddKeyframe, Element: "box", Time: 10}))
	assert.Empty(t, e.Store().Snapshot().Animations)
	assert.False(t, e.Refresh())
}

func TestApplyCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer")
	defer teardown()
	//
	e, _, sched := newEditor(t)
	defer e.Close()
	cmds := []Command{
		{Op: OpAddKeyframe, Element: "box", Time: 0},
		{Op: OpSetProperties, Element: "box", Time: 0, Properties: []Declaration{{"opacity", "0"}}},
		{Op: OpAddKeyframe, Element: "box", Time: 1000},
		{Op: OpUpdateKeyframe, Element: "box", Time: 1000, Properties: []Declaration{
			{"opacity", "1"}, {"color", "red"},
		}},
		{Op: OpPlay},
	}
	for _, cmd := range cmds {
		require.NoError(t, e.Apply(cmd))
	}
	sched.Step()
	st := e.Store().Snapshot()
	assert.True(t, st.Playing)
	assert.InDelta(t, 1016.67, st.CurrentTime, 1e-9)
	css := e.CSS()
	assert.Contains(t, css, "  50.00% {\n    opacity: 1;\n    color: red;\n  }\n")
	require.NoError(t, e.Apply(Command{Op: OpStop}))
	assert.Equal(t, 0.0, e.Store().Snapshot().CurrentTime)
	require.NoError(t, e.Apply(Command{Op: OpSelectKeyframe, Time: 1000}))
	require.NotNil(t, e.Store().Snapshot().SelectedKeyframe)
	require.NoError(t, e.Apply(Command{Op: OpClearKeyframe}))
	assert.Nil(t, e.Store().Snapshot().SelectedKeyframe)
	err := e.Apply(Command{Op: "explode"})
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestRunBindsChanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer")
	defer teardown()
	//
	e, surface, sched := newEditor(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.Store().AddKeyframe("box", 500)
	assert.Eventually(t, func() bool {
		last, ok := surface.Last()
		return ok && strings.Contains(last.CSS, "@keyframes animation_box")
	}, time.Second, 5*time.Millisecond)
	last, _ := surface.Last()
	assert.Contains(t, last.HTML, `<div id="box"></div>`,
		"an id-derived identifier is bound as class selector")

	e.Store().SetPlaying(true)
	assert.Eventually(t, func() bool {
		last, _ := surface.Last()
		return last.Playing
	}, time.Second, 5*time.Millisecond)
	n := len(surface.Frames())
	sched.Step()
	assert.Eventually(t, func() bool {
		_, cursors := surface.Cursor()
		return cursors > 0
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, surface.Frames(), n, "ticks do not render frames")

	e.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after Close")
	}
}

func TestRunEndsWithContext(t *testing.T) {
	e, _, _ := newEditor(t)
	defer e.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(e.Run(ctx), context.Canceled))
}

func TestResendAfterSurfaceAttaches(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer")
	defer teardown()
	//
	e, surface, _ := newEditor(t)
	defer e.Close()
	surface.SetMounted(false)
	e.Store().AddKeyframe("box", 0)
	assert.False(t, e.Refresh())
	surface.SetMounted(true)
	assert.True(t, e.Resend())
	last, ok := surface.Last()
	require.True(t, ok)
	assert.Contains(t, last.CSS, "@keyframes animation_box")
	assert.False(t, e.Refresh(), "unchanged frame is not sent twice")
	assert.True(t, e.Resend(), "resending ignores the last frame")
}

func TestLoadBindsOnlyTheNewDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer")
	defer teardown()
	//
	e, surface, _ := newEditor(t)
	defer e.Close()
	e.Store().AddKeyframe("box", 0)
	require.True(t, e.Refresh())
	require.NoError(t, e.Load([]document.File{
		{Name: "other.html", Content: `<body><div id="other"></div></body>`},
	}))
	last, _ := surface.Last()
	assert.Equal(t, e.Document().ID, last.DocumentID)
	assert.NotContains(t, last.CSS, "animation_box", "animations of the old document are discarded")
}

func TestSeekAndRemovePropertiesCommands(t *testing.T) {
	e, _, _ := newEditor(t)
	defer e.Close()
	half := 50.0
	cmds := []Command{
		{Op: OpAddKeyframe, Element: "box", Time: 0},
		{Op: OpSetProperties, Element: "box", Time: 0, Properties: []Declaration{{"opacity", "0"}, {"rotate", "9deg"}}},
		{Op: OpRemoveProps, Element: "box", Time: 0, Properties: []Declaration{{Property: "rotate"}}},
		{Op: OpSeek, Percent: &half},
	}
	for _, cmd := range cmds {
		require.NoError(t, e.Apply(cmd))
	}
	st := e.Store().Snapshot()
	assert.Equal(t, 1000.0, st.CurrentTime)
	a, _ := st.Animation("box")
	assert.Equal(t, "{opacity: 0}", a.Keyframes[0].Properties.String())
	require.NoError(t, e.Apply(Command{Op: OpSeek, Time: 300}))
	assert.Equal(t, 300.0, e.Store().Snapshot().CurrentTime)
}
