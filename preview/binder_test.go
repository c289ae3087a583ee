package preview

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/keyframer/cssom/douceuradapter"
	"github.com/npillmayer/keyframer/document"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markup = `<html><head><title>p</title></head><body>
<div class="box" style="color: red"></div><p class="box other">x</p><span>y</span>
</body></html>`

const boxCSS = `@keyframes animation_box { 0.00% { opacity: 0; } 50.00% { opacity: 1; } }
.box { animation: animation_box 2s linear infinite; }
`

func loadDoc(t *testing.T) *document.Document {
	doc, err := document.Load([]document.File{
		{Name: "index.html", Content: markup, MimeType: "text/html", Width: 1000, Height: 400},
		{Name: "site.css", Content: "span { color: blue; }", MimeType: "text/css"},
	})
	require.NoError(t, err)
	return doc
}

func TestRenderInjectsStyleAndPlayback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.preview")
	defer teardown()
	//
	b := NewBinder(loadDoc(t), nil)
	frame, err := b.Render(boxCSS, Playback{CurrentTime: 1200, Duration: 2000})
	require.NoError(t, err)
	t.Log(frame.HTML)
	assert.Contains(t, frame.HTML, `<style data-keyframer="preview">span { color: blue; }`)
	assert.Contains(t, frame.HTML, "@keyframes animation_box")
	assert.Contains(t, frame.HTML,
		`<div class="box" style="color: red; animation-play-state: paused; animation-delay: -1200ms;">`)
	assert.Contains(t, frame.HTML,
		`<p class="box other" style="animation-play-state: paused; animation-delay: -1200ms;">`)
	assert.Contains(t, frame.HTML, "<span>y</span>", "elements without animation are untouched")
	assert.Equal(t, 60.0, frame.Percent)
	assert.Equal(t, 0.5, frame.Scale)
	assert.Equal(t, boxCSS, frame.CSS)
}

func TestRenderRunning(t *testing.T) {
	b := NewBinder(loadDoc(t), nil)
	frame, err := b.Render(boxCSS, Playback{Duration: 2000, Playing: true})
	require.NoError(t, err)
	assert.Contains(t, frame.HTML, "animation-play-state: running; animation-delay: 0ms;")
	assert.True(t, frame.Playing)
}

func TestRenderIsIdempotentAndKeepsSource(t *testing.T) {
	doc := loadDoc(t)
	b := NewBinder(doc, nil)
	pb := Playback{CurrentTime: 500, Duration: 2000}
	first, err := b.Render(boxCSS, pb)
	require.NoError(t, err)
	second, err := b.Render(boxCSS, pb)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, markup, doc.Markup)
	assert.Equal(t, 1, strings.Count(second.HTML, "<style"), "re-rendering starts from the source")
}

func TestRenderEmptyDocument(t *testing.T) {
	doc, _ := document.Load(nil)
	b := NewBinder(doc, NewMemorySurface())
	_, err := b.Render(boxCSS, Playback{Duration: 2000})
	assert.True(t, errors.Is(err, document.ErrNoDocument))
	assert.False(t, b.Bind(boxCSS, Playback{Duration: 2000}))
}

func TestBindSkipsUnmountedSurface(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.preview")
	defer teardown()
	//
	surface := NewMemorySurface()
	surface.SetMounted(false)
	b := NewBinder(loadDoc(t), surface)
	pb := Playback{Duration: 2000}
	assert.False(t, b.Bind(boxCSS, pb))
	assert.Empty(t, surface.Frames(), "frames are not queued")
	surface.SetMounted(true)
	assert.True(t, b.Bind(boxCSS, pb))
	assert.False(t, b.Bind(boxCSS, pb), "identical frame is not re-sent")
	assert.Len(t, surface.Frames(), 1)
	b.Invalidate()
	assert.True(t, b.Bind(boxCSS, pb))
	pb.CurrentTime = 100
	assert.True(t, b.Bind(boxCSS, pb))
	last, ok := surface.Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, last.CurrentTime)
}

func TestSetCursor(t *testing.T) {
	surface := NewMemorySurface()
	b := NewBinder(loadDoc(t), surface)
	assert.True(t, b.SetCursor(Playback{CurrentTime: 500, Duration: 1000}))
	ms, n := surface.Cursor()
	assert.Equal(t, 500.0, ms)
	assert.Equal(t, 1, n)
	assert.Empty(t, surface.Frames())
	assert.False(t, NewBinder(loadDoc(t), nil).SetCursor(Playback{}))
}

func TestDocumentAnimationsFollowPlayback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframer.preview")
	defer teardown()
	//
	doc, err := document.Load([]document.File{
		{Name: "index.html", Content: `<html><head><style>
@keyframes spin { from { opacity: 0; } to { opacity: 1; } }
.logo { animation: spin 1s infinite; }
</style></head><body><img class="logo"/><div class="box"></div></body></html>`},
		{Name: "site.css", Content: "@keyframes animation_box { to { opacity: 1; } }"},
	})
	require.NoError(t, err)
	b := NewBinder(doc, nil)
	frame, err := b.Render("", Playback{CurrentTime: 250, Duration: 1000})
	require.NoError(t, err)
	assert.Contains(t, frame.HTML,
		`<img class="logo" style="animation-play-state: paused; animation-delay: -250ms;"/>`)
	assert.Contains(t, frame.HTML, `<div class="box"></div>`)
	frame, err = b.Render(boxCSS, Playback{CurrentTime: 250, Duration: 1000})
	require.NoError(t, err)
	assert.Contains(t, frame.HTML,
		`<div class="box" style="animation-play-state: paused; animation-delay: -250ms;">`)
	sheet, err := douceuradapter.Parse(boxCSS)
	require.NoError(t, err)
	assert.Equal(t, []string{"animation_box"}, b.Shadowed(sheet))
}

func TestFitScale(t *testing.T) {
	assert.Equal(t, 0.5, FitScale(1000, 400, 500, 400))
	assert.Equal(t, 2.0, FitScale(250, 100, 500, 400))
	assert.Equal(t, 1.0, FitScale(0, 300, 500, 400))
}
