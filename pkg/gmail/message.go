package gmail

import (
	"encoding/base64"
	"strings"

	"golang.org/x/net/html"
)

// Header returns the first header with the given name, case-insensitively.
func (m *Message) Header(name string) string {
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Text returns the message body as plain text. text/plain parts are
// preferred; HTML-only messages are reduced to their text nodes. Falls back
// to the snippet.
func (m *Message) Text() string {
	if s := findPart(&m.Payload, "text/plain"); s != "" {
		return s
	}
	if s := findPart(&m.Payload, "text/html"); s != "" {
		return htmlText(s)
	}
	return m.Snippet
}

func findPart(p *MessagePart, mime string) string {
	if strings.HasPrefix(p.MimeType, mime) && p.Body.Data != "" {
		return decodeBody(p.Body.Data)
	}
	for i := range p.Parts {
		if s := findPart(&p.Parts[i], mime); s != "" {
			return s
		}
	}
	return ""
}

func decodeBody(data string) string {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(b)
}

// htmlText extracts visible text, one line per block element.
func htmlText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			case "br", "p", "div", "tr", "li":
				b.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
