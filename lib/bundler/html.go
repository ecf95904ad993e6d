package bundler

import (
	"bytes"
	"errors"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
</head>
<body>
</body>
</html>
`

// RenderPage injects assets into template in order. Stylesheets go to the
// end of <head>, everything else becomes a script at the end of <body>.
func RenderPage(template []byte, assets []string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(template))
	if err != nil {
		return nil, err
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)
	if head == nil || body == nil {
		return nil, errors.New("template has no <head> or <body>")
	}

	for _, asset := range assets {
		if isStylesheet(asset) {
			head.AppendChild(&html.Node{
				Type:     html.ElementNode,
				DataAtom: atom.Link,
				Data:     "link",
				Attr: []html.Attribute{
					{Key: "href", Val: asset},
					{Key: "rel", Val: "stylesheet"},
				},
			})
			continue
		}

		body.AppendChild(&html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Script,
			Data:     "script",
			Attr: []html.Attribute{
				{Key: "src", Val: asset},
			},
		})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func isStylesheet(asset string) bool {
	asset, _, _ = strings.Cut(asset, "?")
	return path.Ext(asset) == ".css"
}

// withHash appends the build hash as a query parameter.
func withHash(asset, hash string) string {
	if strings.Contains(asset, "?") {
		return asset + "&" + hash
	}
	return asset + "?" + hash
}
