package workshop

import (
	"bytes"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

// idPattern matches the item id in a filedetails link.
var idPattern = regexp.MustCompile(`filedetails/\?id=(\d{5,15})`)

var (
	datedLayouts    = []string{"2 Jan, 2006 @ 3:04pm", "Jan 2, 2006 @ 3:04pm"}
	yearlessLayouts = []string{"2 Jan @ 3:04pm", "Jan 2 @ 3:04pm"}
)

func parseDetails(body []byte, id domain.ItemID, now time.Time) (*domain.Item, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, zerr.Wrap(domain.ErrCatalogParseFailed, err.Error())
	}

	if msg := findByID(doc, "message"); msg != nil {
		err := zerr.Wrap(domain.ErrItemNotFound, id.String())
		if text := textOf(msg); text != "" {
			err = zerr.With(err, "reason", text)
		}
		return nil, err
	}

	title := findByClass(doc, "workshopItemTitle")
	if title == nil {
		return nil, zerr.Wrap(domain.ErrCatalogParseFailed, "item title not found")
	}

	item := &domain.Item{
		ID:    id,
		Title: textOf(title),
	}

	for _, previewID := range []string{"previewImageMain", "previewImage"} {
		if img := findByID(doc, previewID); img != nil {
			item.PreviewURL = attr(img, "src")
		}
	}

	if required := findByID(doc, "RequiredItems"); required != nil {
		for _, dep := range linkedIDs(required) {
			if dep != id {
				item.Dependencies = append(item.Dependencies, dep)
			}
		}
	}

	stats := findAllByClass(doc, "detailsStatRight")
	if len(stats) > 0 {
		size, err := domain.ParseSize(textOf(stats[0]))
		if err != nil {
			return nil, zerr.Wrap(domain.ErrCatalogParseFailed, err.Error())
		}
		item.Size = size
	}

	// Steam lists "posted" and, once the item changed, "updated" after the size.
	for _, stat := range stats[min(1, len(stats)):] {
		t, err := parseWorkshopDate(textOf(stat), now)
		if err != nil {
			return nil, err
		}
		item.Version = domain.VersionFromTime(t)
	}

	return item, nil
}

func parseSearch(body []byte) ([]domain.ItemID, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, zerr.Wrap(domain.ErrCatalogParseFailed, err.Error())
	}
	return linkedIDs(doc), nil
}

// parseWorkshopDate reads dates such as "12 Jan, 2020 @ 4:02pm".
// Steam omits the year for dates in the current year.
func parseWorkshopDate(s string, now time.Time) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")

	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.AddDate(now.Year(), 0, 0), nil
		}
	}
	return time.Time{}, zerr.With(zerr.Wrap(domain.ErrCatalogParseFailed, "unrecognized date"), "date", s)
}

// linkedIDs returns the ids of all filedetails links below n, de-duplicated in document order.
func linkedIDs(n *html.Node) []domain.ItemID {
	var ids []domain.ItemID
	for node := range n.Descendants() {
		if node.Type != html.ElementNode || node.Data != "a" {
			continue
		}
		m := idPattern.FindStringSubmatch(attr(node, "href"))
		if m == nil {
			continue
		}
		id := domain.ItemID(m[1])
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func findByID(n *html.Node, id string) *html.Node {
	for node := range n.Descendants() {
		if node.Type == html.ElementNode && attr(node, "id") == id {
			return node
		}
	}
	return nil
}

func findByClass(n *html.Node, class string) *html.Node {
	for node := range n.Descendants() {
		if hasClass(node, class) {
			return node
		}
	}
	return nil
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	var found []*html.Node
	for node := range n.Descendants() {
		if hasClass(node, class) {
			found = append(found, node)
		}
	}
	return found
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textOf returns the whitespace-normalized text content of n.
func textOf(n *html.Node) string {
	var b strings.Builder
	for node := range n.Descendants() {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
