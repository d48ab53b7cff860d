package browser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Snapshot is a parsed, immutable copy of the rendered document. All
// classification and extraction runs against a snapshot so that re-renders
// mid-extraction cannot produce stale-element failures.
type Snapshot struct {
	doc *goquery.Document
}

// Handle is an opaque reference to one element inside a snapshot.
type Handle struct {
	sel *goquery.Selection
}

// ParseSnapshot parses rendered HTML into a Snapshot.
func ParseSnapshot(src string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("browser: parse snapshot: %w", err)
	}
	return &Snapshot{doc: doc}, nil
}

// FindAll returns every element matching the CSS query, in document order.
func (s *Snapshot) FindAll(query string) []Handle {
	return toHandles(s.doc.Find(query))
}

// FullText returns the visible text of the whole document with block
// structure preserved as newlines. Script and style content is excluded.
func (s *Snapshot) FullText() string {
	body := s.doc.Find("body")
	if body.Length() == 0 {
		return ""
	}
	var buf bytes.Buffer
	renderText(body.Nodes[0], &buf)
	return buf.String()
}

func toHandles(sel *goquery.Selection) []Handle {
	handles := make([]Handle, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		handles = append(handles, Handle{sel: s})
	})
	return handles
}

// IsZero reports whether the handle references nothing.
func (h Handle) IsZero() bool {
	return h.sel == nil || h.sel.Length() == 0
}

// FindAll returns matching descendants of this element, in document order.
func (h Handle) FindAll(query string) []Handle {
	if h.IsZero() {
		return nil
	}
	return toHandles(h.sel.Find(query))
}

// Text returns the element's text with all whitespace collapsed to single
// spaces, suitable for header cells and table cells.
func (h Handle) Text() string {
	if h.IsZero() {
		return ""
	}
	return strings.Join(strings.Fields(h.sel.Text()), " ")
}

// BlockText returns the element's text with block boundaries preserved as
// newlines, suitable for regex sweeps over record containers.
func (h Handle) BlockText() string {
	if h.IsZero() {
		return ""
	}
	var buf bytes.Buffer
	for _, n := range h.sel.Nodes {
		renderText(n, &buf)
	}
	return buf.String()
}

// Attr returns the named attribute and whether it is present.
func (h Handle) Attr(name string) (string, bool) {
	if h.IsZero() {
		return "", false
	}
	return h.sel.Attr(name)
}

var hiddenStyle = regexp.MustCompile(`display\s*:\s*none|visibility\s*:\s*hidden`)

// Visible reports whether the element (and its snapshot ancestors) carry no
// hiding markers. This is a static approximation of rendered visibility.
func (h Handle) Visible() bool {
	if h.IsZero() {
		return false
	}
	for sel := h.sel; sel.Length() > 0; sel = sel.Parent() {
		node := sel.Nodes[0]
		if node.Type == html.ElementNode && node.Data == "body" {
			break
		}
		if _, hidden := sel.Attr("hidden"); hidden {
			return false
		}
		if style, ok := sel.Attr("style"); ok && hiddenStyle.MatchString(strings.ToLower(style)) {
			return false
		}
		if t, ok := sel.Attr("type"); ok && strings.EqualFold(t, "hidden") {
			return false
		}
	}
	return true
}

// Enabled reports whether the element carries no disabled marker.
func (h Handle) Enabled() bool {
	if h.IsZero() {
		return false
	}
	if _, disabled := h.sel.Attr("disabled"); disabled {
		return false
	}
	if cls, ok := h.sel.Attr("class"); ok && strings.Contains(strings.ToLower(cls), "disabled") {
		return false
	}
	return true
}

// CSSPath builds a selector that locates this element in the live document,
// as a chain of :nth-child steps from the document root.
func (h Handle) CSSPath() string {
	if h.IsZero() {
		return ""
	}
	var steps []string
	for node := h.sel.Nodes[0]; node != nil && node.Type == html.ElementNode; node = node.Parent {
		if node.Data == "html" {
			break
		}
		pos := 1
		for sib := node.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode {
				pos++
			}
		}
		steps = append([]string{fmt.Sprintf("%s:nth-child(%d)", node.Data, pos)}, steps...)
	}
	return strings.Join(steps, " > ")
}

var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "hr": true, "li": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true, "template": true,
}

func lastByte(buf *bytes.Buffer) byte {
	b := buf.Bytes()
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

// renderText walks the node tree appending text content, inserting newlines
// at block-element boundaries.
func renderText(node *html.Node, buf *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(node.Data), " ")
		if text != "" {
			if last := lastByte(buf); last != 0 && last != '\n' && last != ' ' {
				buf.WriteByte(' ')
			}
			buf.WriteString(text)
		}
	case html.ElementNode:
		if skipTags[node.Data] {
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderText(child, buf)
		}
		if blockTags[node.Data] && lastByte(buf) != 0 && lastByte(buf) != '\n' {
			buf.WriteByte('\n')
		}
	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderText(child, buf)
		}
	}
}
