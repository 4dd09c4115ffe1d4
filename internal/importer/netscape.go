// Package importer parses browser bookmark exports into neutral import
// records. It deals only in document structure; persistence is left to
// the import service.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"linkhive/internal/domain/models"
)

// ParseNetscape reads a bookmark file in the Netscape bookmark format,
// the de-facto export format of every major browser. Folders come from
// <H3> headers, bookmarks from <A> anchors, and nesting from the <DL>
// lists that follow each header. Records are emitted in document order
// with synthetic local ids, parents always before their children.
//
// The format in the wild is not valid HTML (unclosed <DT> and <p> tags
// everywhere), which the html package tolerates.
func ParseNetscape(r io.Reader) ([]models.ImportRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bookmark file: %w", err)
	}

	p := &netscapeParser{}
	p.walk(doc)

	if len(p.records) == 0 {
		return nil, fmt.Errorf("no folders or bookmarks found in document")
	}
	return p.records, nil
}

type netscapeParser struct {
	records []models.ImportRecord
	// stack of local ids of the folders enclosing the current node
	folderStack []string
	nextID      int
}

func (p *netscapeParser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h3":
			p.folder(n)
		case "a":
			p.bookmark(n)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}

	// A closing DL ends the folder its H3 opened
	if n.Type == html.ElementNode && n.Data == "dl" && len(p.folderStack) > 0 {
		p.folderStack = p.folderStack[:len(p.folderStack)-1]
	}
}

func (p *netscapeParser) folder(n *html.Node) {
	name := strings.TrimSpace(textContent(n))
	localID := p.newLocalID()

	p.records = append(p.records, models.ImportRecord{
		Type:          models.ImportRecordFolder,
		LocalID:       localID,
		ParentLocalID: p.currentParent(),
		Name:          name,
	})
	p.folderStack = append(p.folderStack, localID)
}

func (p *netscapeParser) bookmark(n *html.Node) {
	rec := models.ImportRecord{
		Type:          models.ImportRecordBookmark,
		LocalID:       p.newLocalID(),
		ParentLocalID: p.currentParent(),
		Title:         strings.TrimSpace(textContent(n)),
	}

	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "href":
			rec.URL = attr.Val
		case "tags":
			rec.Tags = splitTags(attr.Val)
		case "icon":
			rec.Favicon = attr.Val
		}
	}

	if rec.URL == "" {
		return // place-holder anchors carry no link
	}
	p.records = append(p.records, rec)
}

func (p *netscapeParser) currentParent() *string {
	if len(p.folderStack) == 0 {
		return nil
	}
	id := p.folderStack[len(p.folderStack)-1]
	return &id
}

func (p *netscapeParser) newLocalID() string {
	p.nextID++
	return strconv.Itoa(p.nextID)
}

// textContent joins the text nodes under n. Anchors and headers in
// exports occasionally wrap their label in extra markup.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			visit(gc)
		}
	}
	visit(n)
	return sb.String()
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
