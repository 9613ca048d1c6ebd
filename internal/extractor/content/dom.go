package content

import (
	"strings"

	"golang.org/x/net/html"
)

// metaTag is one <meta> element's relevant attributes.
type metaTag struct {
	name     string
	property string
	content  string
}

// imageTag is one <img> element's relevant attributes.
type imageTag struct {
	src string
	alt string
}

// hreflangTag is one <link rel="alternate" hreflang="..."> element.
type hreflangTag struct {
	lang string
	href string
}

// document holds everything a single DOM walk collects. Feature
// computations read from it instead of re-walking the tree.
//
// Design decision: We collect in one pass rather than querying per feature
// because a dozen independent tree walks over large pages adds up, and the
// collected form is easier to unit test.
type document struct {
	title     string
	metas     []metaTag
	canonical string

	// headings[1] through headings[6] hold trimmed heading texts.
	headings [7][]string

	anchors    []string
	paragraphs []string
	listCount  int
	tableCount int
	images     []imageTag

	// jsonLD holds the raw text of application/ld+json scripts.
	jsonLD []string

	lang           string
	hreflangs      []hreflangTag
	hasBreadcrumbs bool
	hasSearchInput bool

	// timeDatetimes holds datetime attributes of <time> elements in order.
	timeDatetimes []string

	// visibleText is the page text with script and style content excluded
	// and whitespace collapsed.
	visibleText string
}

// metaName returns the first meta tag with the given name, or nil.
func (d *document) metaName(name string) *metaTag {
	for i := range d.metas {
		if strings.EqualFold(d.metas[i].name, name) {
			return &d.metas[i]
		}
	}
	return nil
}

// metaProperty returns the first meta tag with the given property, or nil.
func (d *document) metaProperty(property string) *metaTag {
	for i := range d.metas {
		if strings.EqualFold(d.metas[i].property, property) {
			return &d.metas[i]
		}
	}
	return nil
}

// parseDocument parses markup and collects the document summary.
func parseDocument(markup string) (*document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	doc := &document{}
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Script and style content is invisible; exclude the whole
			// subtree from text, but capture JSON-LD payloads first.
			if n.Data == "script" || n.Data == "style" {
				if n.Data == "script" && strings.EqualFold(getAttr(n, "type"), "application/ld+json") {
					doc.jsonLD = append(doc.jsonLD, nodeText(n))
				}
				return
			}
			doc.collectElement(n)
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.visibleText = collapseWhitespace(text.String())
	return doc, nil
}

// collectElement records one element node into the summary.
func (d *document) collectElement(n *html.Node) {
	switch n.Data {
	case "title":
		if d.title == "" {
			d.title = strings.TrimSpace(nodeText(n))
		}

	case "meta":
		d.metas = append(d.metas, metaTag{
			name:     getAttr(n, "name"),
			property: getAttr(n, "property"),
			content:  getAttr(n, "content"),
		})

	case "link":
		rel := strings.ToLower(getAttr(n, "rel"))
		switch {
		case rel == "canonical" && d.canonical == "":
			d.canonical = getAttr(n, "href")
		case rel == "alternate" && getAttr(n, "hreflang") != "":
			d.hreflangs = append(d.hreflangs, hreflangTag{
				lang: getAttr(n, "hreflang"),
				href: getAttr(n, "href"),
			})
		}

	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		d.headings[level] = append(d.headings[level], strings.TrimSpace(nodeText(n)))

	case "a":
		if href := getAttr(n, "href"); href != "" {
			d.anchors = append(d.anchors, href)
		}

	case "p":
		d.paragraphs = append(d.paragraphs, strings.TrimSpace(nodeText(n)))

	case "ul", "ol":
		d.listCount++
		if n.Data == "ol" && breadcrumbClass.MatchString(getAttr(n, "class")) {
			d.hasBreadcrumbs = true
		}

	case "table":
		d.tableCount++

	case "img":
		d.images = append(d.images, imageTag{
			src: getAttr(n, "src"),
			alt: getAttr(n, "alt"),
		})

	case "nav", "div":
		if breadcrumbClass.MatchString(getAttr(n, "class")) {
			d.hasBreadcrumbs = true
		}

	case "input":
		if strings.EqualFold(getAttr(n, "type"), "search") || searchInputName.MatchString(getAttr(n, "name")) {
			d.hasSearchInput = true
		}

	case "html":
		if lang := getAttr(n, "lang"); lang != "" {
			d.lang = lang
		}

	case "time":
		if dt := getAttr(n, "datetime"); dt != "" {
			d.timeDatetimes = append(d.timeDatetimes, dt)
		}
	}
}

// nodeText returns the concatenated text of a node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseWhitespace trims each line, splits it on runs of double spaces,
// and joins the non-empty chunks with single spaces.
func collapseWhitespace(s string) string {
	var chunks []string
	for _, line := range strings.Split(s, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
