package rod

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// FormSnapshot captures a cleaned rendering of the active frame's form for
// failure diagnostics: scripts, styles and decorative attributes stripped,
// control ids and current values kept.
func (a *Adapter) FormSnapshot(ctx context.Context) string {
	page := a.frameFor(a.currentFrame())
	if page == nil {
		page = a.page
	}
	p := page.Context(ctx).Timeout(2 * time.Second)

	el, err := p.Element("form")
	if err != nil {
		if el, err = p.Element("body"); err != nil {
			return ""
		}
	}
	// Serialize with live input values; the HTML source only carries the
	// initial value attributes.
	res, err := el.Eval(`() => {
		const clone = this.cloneNode(true);
		const live = this.querySelectorAll('input, select, textarea');
		const copies = clone.querySelectorAll('input, select, textarea');
		for (let i = 0; i < live.length && i < copies.length; i++) {
			copies[i].setAttribute('data-live-value', live[i].value ?? '');
		}
		return clone.outerHTML;
	}`)
	if err != nil {
		return ""
	}
	return cleanFormHTML(res.Value.Str())
}

const snapshotMaxSize = 40_000

var snapshotDropTags = []string{"script", "style", "noscript", "svg", "link", "meta", "head", "title", "img"}

var snapshotDropAttrs = []string{
	"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex", "class",
}

// cleanFormHTML strips the markup down to structure, identity, and values.
func cleanFormHTML(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return truncate(raw, snapshotMaxSize)
	}

	cleanNode(doc)

	var sb strings.Builder
	_ = html.Render(&sb, doc)
	out := sb.String()
	// html.Parse wraps fragments in html/head/body scaffolding.
	out = strings.TrimPrefix(out, "<html><head></head><body>")
	out = strings.TrimSuffix(out, "</body></html>")
	return truncate(out, snapshotMaxSize)
}

func cleanNode(n *html.Node) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type == html.ElementNode {
		for _, drop := range snapshotDropTags {
			if n.Data == drop {
				if n.Parent != nil {
					n.Parent.RemoveChild(n)
				}
				return
			}
		}
		n.Attr = keepAttrs(n.Attr)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c)
		c = next
	}
}

func keepAttrs(attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if dropAttr(attr.Key) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func dropAttr(key string) bool {
	for _, drop := range snapshotDropAttrs {
		if key == drop {
			return true
		}
	}
	// data-live-value is the snapshot's own annotation; everything else in
	// the data-/aria-/on* families is noise.
	if key == "data-live-value" {
		return false
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "on")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n<!-- snapshot truncated -->"
}
