package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/npillmayer/keyframer/cssom"
	"github.com/npillmayer/keyframer/cssom/douceuradapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned for operations which need markup, if no HTML
// file has been uploaded.
var ErrNoDocument = errors.New("document: no HTML file loaded")

// File is an uploaded file. Width and Height are the scroll dimensions of
// the rendered markup as measured by the uploading client, 0 if unknown.
type File struct {
	Name     string
	Content  string
	MimeType string
	Width    int
	Height   int
}

// IsHTML is true for files of type text/html or with an .html/.htm
// extension.
func (f File) IsHTML() bool {
	return hasMimeType(f.MimeType, "text/html") || hasExt(f.Name, ".html", ".htm")
}

// IsCSS is true for files of type text/css or with a .css extension.
func (f File) IsCSS() bool {
	return hasMimeType(f.MimeType, "text/css") || hasExt(f.Name, ".css")
}

func hasMimeType(mt, want string) bool {
	mt = strings.ToLower(strings.TrimSpace(mt))
	return mt == want || strings.HasPrefix(mt, want+";")
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Document is a loaded document. It is immutable.
type Document struct {
	ID          string // fresh for every load
	Name        string // name of the HTML file
	Markup      string // raw markup text
	Width       int
	Height      int
	css         []File
	identifiers []string
}

// Load creates a document from a set of uploaded files. The first HTML file
// is taken as markup; CSS files are kept in upload order. Other files are
// ignored. Without an HTML file the document is empty, which is not an
// error.
func Load(files []File, opts ...Option) (*Document, error) {
	p := props{order: DefaultPreference()}
	for _, option := range opts {
		option(&p)
	}
	doc := &Document{ID: uuid.New().String()}
	found := false
	for _, f := range files {
		switch {
		case f.IsHTML() && !found:
			doc.Name, doc.Markup = f.Name, f.Content
			doc.Width, doc.Height = f.Width, f.Height
			found = true
		case f.IsHTML():
			tracer().Infof("ignoring additional HTML file %q", f.Name)
		case f.IsCSS():
			doc.css = append(doc.css, f)
		default:
			tracer().Infof("ignoring file %q of type %q", f.Name, f.MimeType)
		}
	}
	if !found {
		tracer().Infof("document %s has no markup", doc.ID)
		return doc, nil
	}
	root, err := doc.Parse()
	if err != nil {
		return nil, err
	}
	doc.identifiers = identifiers(root, p.order)
	tracer().Infof("loaded document %s (%s) with %d element identifiers",
		doc.ID, doc.Name, len(doc.identifiers))
	return doc, nil
}

// ReadFiles reads files from the local file system, guessing MIME types
// from file extensions.
func ReadFiles(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("document: cannot read upload: %w", err)
		}
		f := File{Name: filepath.Base(path), Content: string(content)}
		switch {
		case hasExt(path, ".html", ".htm"):
			f.MimeType = "text/html"
		case hasExt(path, ".css"):
			f.MimeType = "text/css"
		}
		files = append(files, f)
	}
	return files, nil
}

// Empty is true if the document has no markup.
func (doc *Document) Empty() bool {
	return doc == nil || doc.Markup == ""
}

// Parse creates a fresh node tree from the markup. Clients may change the
// tree at will.
func (doc *Document) Parse() (*html.Node, error) {
	if doc.Empty() {
		return nil, ErrNoDocument
	}
	root, err := html.Parse(strings.NewReader(doc.Markup))
	if err != nil {
		return nil, fmt.Errorf("document: cannot parse %s: %w", doc.Name, err)
	}
	return root, nil
}

// Identifiers returns the element identifiers of the document, in document
// order and without duplicates. Clients must not modify the slice.
func (doc *Document) Identifiers() []string {
	if doc == nil {
		return nil
	}
	return doc.identifiers
}

// UploadedCSS returns the concatenated contents of all uploaded CSS files.
func (doc *Document) UploadedCSS() string {
	if doc == nil {
		return ""
	}
	b := strings.Builder{}
	for _, f := range doc.css {
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Stylesheets returns the <style> elements of the markup followed by the
// uploaded CSS files as stylesheets. Sheets which cannot be parsed are
// skipped.
func (doc *Document) Stylesheets() []cssom.StyleSheet {
	var sheets []cssom.StyleSheet
	if root, err := doc.Parse(); err == nil {
		for _, s := range douceuradapter.ExtractStyleElements(root) {
			sheets = append(sheets, s)
		}
	}
	if doc == nil {
		return sheets
	}
	for _, f := range doc.css {
		s, err := douceuradapter.Parse(f.Content)
		if err != nil {
			tracer().Errorf("skipping stylesheet %s: %v", f.Name, err)
			continue
		}
		sheets = append(sheets, s)
	}
	return sheets
}

// --- Identifiers -----------------------------------------------------------

func identifiers(root *html.Node, order []Source) []string {
	body := findBody(root)
	if body == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			if id := Identifier(ch, order...); id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
			walk(ch)
		}
	}
	walk(body)
	return ids
}

// Identifier returns the identifier of an element node, using the given
// order of preference (DefaultPreference if empty).
func Identifier(n *html.Node, order ...Source) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if len(order) == 0 {
		order = DefaultPreference()
	}
	for _, src := range order {
		switch src {
		case ByID:
			if id := strings.TrimSpace(attr(n, "id")); id != "" {
				return id
			}
		case ByClass:
			if cls := strings.Fields(attr(n, "class")); len(cls) > 0 {
				return cls[0]
			}
		case ByTag:
			return strings.ToLower(n.Data)
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if b := findBody(ch); b != nil {
			return b
		}
	}
	return nil
}
