package preview

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/keyframer/cssom"
	"github.com/npillmayer/keyframer/cssom/douceuradapter"
	"github.com/npillmayer/keyframer/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StyleMarker is the value of the data-keyframer attribute of the injected
// <style> element.
const StyleMarker = "preview"

// Binder renders frames of a document and hands them to a surface.
//
// Animations bound by the document's own stylesheets follow the playback
// state just like the synthesized ones.
type Binder struct {
	doc      *document.Document
	surface  Surface
	props    props
	animated []cssom.Rule         // animated rules of the document's sheets
	names    map[string]struct{} // @keyframes names of the document's sheets
	mu       sync.Mutex          // guards last
	last     *Frame
}

type props struct {
	width, height float64
}

// Option is a type to configure binders.
type Option func(*props)

// Viewport sets the size of the preview viewport, used for the fit-to-view
// scale. Non-positive sizes are ignored.
func Viewport(width, height int) Option {
	return func(p *props) {
		if width > 0 && height > 0 {
			p.width, p.height = float64(width), float64(height)
		}
	}
}

// NewBinder creates a binder for a document. surface may be nil, in which
// case Bind always skips.
func NewBinder(doc *document.Document, surface Surface, opts ...Option) *Binder {
	p := props{width: DefaultViewportWidth, height: DefaultViewportHeight}
	for _, option := range opts {
		option(&p)
	}
	b := &Binder{doc: doc, surface: surface, props: p, names: make(map[string]struct{})}
	sheets := doc.Stylesheets()
	b.animated = cssom.AnimatedRules(sheets...)
	for _, sheet := range sheets {
		for _, kf := range sheet.Keyframes() {
			b.names[kf.Name()] = struct{}{}
		}
	}
	return b
}

// Document returns the document of the binder.
func (b *Binder) Document() *document.Document {
	return b.doc
}

// Render creates a frame from the original markup, the synthesized css and
// the playback state. Render does not change the binder or its document and
// may be called concurrently.
func (b *Binder) Render(css string, pb Playback) (Frame, error) {
	root, err := b.doc.Parse()
	if err != nil {
		return Frame{}, err
	}
	injectStyle(root, b.doc.UploadedCSS()+css)
	rules := b.animated
	if css != "" {
		sheet, err := douceuradapter.Parse(css)
		if err != nil {
			tracer().Errorf("preview cannot bind animations: %v", err)
		} else {
			for _, name := range b.Shadowed(sheet) {
				tracer().Infof("keyframes rule %s replaces a rule of the document", name)
			}
			rules = append(rules[:len(rules):len(rules)], cssom.AnimatedRules(sheet)...)
		}
	}
	if len(rules) > 0 {
		n := bindPlayback(root, rules, pb)
		tracer().Debugf("bound playback to %d elements", n)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return Frame{}, err
	}
	scale := FitScale(float64(b.doc.Width), float64(b.doc.Height), b.props.width, b.props.height)
	return Frame{
		DocumentID:  b.doc.ID,
		HTML:        buf.String(),
		CSS:         css,
		Playing:     pb.Playing,
		CurrentTime: pb.CurrentTime,
		Duration:    pb.Duration,
		Percent:     pb.Percent(),
		Scale:       scale,
	}, nil
}

// Bind renders a frame and hands it to the surface. It returns true if the
// surface received a frame. If the surface is not mounted, binding is
// skipped; a frame identical to the last one delivered is not sent again.
func (b *Binder) Bind(css string, pb Playback) bool {
	if b.surface == nil || !b.surface.Mounted() {
		tracer().Debugf("preview surface not mounted, skipping frame")
		return false
	}
	frame, err := b.Render(css, pb)
	if err != nil {
		tracer().Errorf("preview: %v", err)
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last != nil && *b.last == frame {
		return false
	}
	if err := b.surface.Render(frame); err != nil {
		tracer().Errorf("preview surface failed to render: %v", err)
		return false
	}
	b.last = &frame
	return true
}

// SetCursor moves the cursor of a CursorSurface without rendering a frame.
// It returns false if the surface does not support cursors or is not
// mounted.
func (b *Binder) SetCursor(pb Playback) bool {
	cs, ok := b.surface.(CursorSurface)
	if !ok || !cs.Mounted() {
		return false
	}
	cs.SetCursor(pb.CurrentTime, pb.Percent())
	return true
}

// Shadowed returns the names of @keyframes rules of sheet which the
// document's own stylesheets define as well.
func (b *Binder) Shadowed(sheet cssom.StyleSheet) []string {
	var names []string
	for _, kf := range sheet.Keyframes() {
		if _, ok := b.names[kf.Name()]; ok {
			names = append(names, kf.Name())
		}
	}
	return names
}

// Invalidate forgets the last frame delivered, so the next Bind will send
// a frame even if it is unchanged. Editors call this when a new client
// attaches to the surface.
func (b *Binder) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = nil
}

// --- Rendering -------------------------------------------------------------

func injectStyle(root *html.Node, css string) {
	head := findElement(root, atom.Head)
	if head == nil {
		head = root
	}
	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: "data-keyframer", Val: StyleMarker}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
}

// bindPlayback sets the inline play-state and delay of all elements matched
// by the selectors of rules. It returns the number of elements touched.
func bindPlayback(root *html.Node, rules []cssom.Rule, pb Playback) int {
	decl := playbackDeclarations(pb)
	bound := make(map[*html.Node]bool)
	for _, r := range rules {
		for _, sel := range strings.Split(r.Selector(), ",") {
			sel = strings.TrimSpace(sel)
			if sel == "" {
				continue
			}
			s, err := cascadia.Compile(sel)
			if err != nil {
				tracer().Errorf("preview skips selector %q: %v", sel, err)
				continue
			}
			for _, n := range s.MatchAll(root) {
				if !bound[n] {
					setInlineStyle(n, decl)
					bound[n] = true
				}
			}
		}
	}
	return len(bound)
}

func playbackDeclarations(pb Playback) string {
	state := "paused"
	if pb.Playing {
		state = "running"
	}
	delay := "0ms"
	if pb.CurrentTime > 0 {
		delay = "-" + strconv.FormatFloat(pb.CurrentTime, 'f', -1, 64) + "ms"
	}
	return "animation-play-state: " + state + "; animation-delay: " + delay + ";"
}

func setInlineStyle(n *html.Node, decl string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			v := strings.TrimSpace(a.Val)
			if v != "" && !strings.HasSuffix(v, ";") {
				v += ";"
			}
			if v != "" {
				v += " "
			}
			n.Attr[i].Val = v + decl
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if e := findElement(ch, a); e != nil {
			return e
		}
	}
	return nil
}
