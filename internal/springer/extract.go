package springer

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extraction is everything pulled from one book page.
type Extraction struct {
	Fields FieldMap
	Topics []string
	// About is the raw HTML of the "About this book" content, or empty.
	About string
	// Bibliographic reports whether the page had a Bibliographic Information section.
	Bibliographic bool
}

// Page is a parsed Springer Link book page.
type Page struct {
	doc *goquery.Document
}

// ParsePage parses r leniently as HTML5. Malformed markup is repaired by the
// parser rather than rejected.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// Extract runs every structural query against the page.
func (p *Page) Extract() (*Extraction, error) {
	about, err := p.About()
	if err != nil {
		return nil, err
	}
	return &Extraction{
		Fields:        p.Fields(),
		Topics:        p.Topics(),
		About:         about,
		Bibliographic: p.HasBibliographicSection(),
	}, nil
}

// HasBibliographicSection reports whether the page carries the labelled
// Bibliographic Information section.
func (p *Page) HasBibliographicSection() bool {
	return p.doc.Find(bibliographicSectionSelector).Length() > 0
}

// items returns the label/value list items of the first bibliographic section.
func (p *Page) items() *goquery.Selection {
	return p.doc.Find(bibliographicSectionSelector).First().Find(bibliographicItemSelector)
}

// Fields builds the Raw Field Map. A pair is kept when both the label's own
// text and the value's full text are non-empty after trimming. Items whose
// label contains "ISBN" also record their publication date as "<label> Date".
func (p *Page) Fields() FieldMap {
	fields := FieldMap{}

	p.items().Each(func(_ int, item *goquery.Selection) {
		label := itemLabel(item)
		if label == "" {
			return
		}

		if value := item.Find(itemValueSelector).First(); value.Length() > 0 {
			if text := strings.TrimSpace(value.Text()); text != "" {
				fields[label] = text
			}
		}

		if strings.Contains(label, isbnLabelMarker) {
			if date := item.Find(publicationDateSelector).First(); date.Length() > 0 {
				fields[label+dateLabelSuffix] = publicationDate(date)
			}
		}
	})

	return fields
}

// Topics returns the link texts of the item labelled exactly "Topics".
// When several items carry that label the last one wins.
func (p *Page) Topics() []string {
	topics := []string{}

	p.items().Each(func(_ int, item *goquery.Selection) {
		if itemLabel(item) != LabelTopics {
			return
		}
		topics = []string{}
		item.Find(topicLinkSelector).Each(func(_ int, a *goquery.Selection) {
			if text := strings.TrimSpace(a.Text()); text != "" {
				topics = append(topics, text)
			}
		})
	})

	return topics
}

// About returns the serialized content container of the "About this book"
// section, or an empty string when the page has none.
func (p *Page) About() (string, error) {
	content := p.doc.Find(aboutSectionSelector).First().Find(aboutContentSelector).First()
	if content.Length() == 0 {
		return "", nil
	}
	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("rendering about section: %w", err)
	}
	return fragment, nil
}

func itemLabel(item *goquery.Selection) string {
	return strings.TrimSpace(ownText(item.Find(itemLabelSelector).First()))
}

// publicationDate reads the date marker's own text without the "Published:"
// prefix. Pages that wrap the date in a child element fall back to the full text.
func publicationDate(sel *goquery.Selection) string {
	date := cleanDate(ownText(sel))
	if date == "" {
		date = cleanDate(sel.Text())
	}
	return date
}

func cleanDate(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, publishedPrefix, ""))
}

// ownText returns the text of the first node in sel that precedes its first
// child element, excluding descendant text.
func ownText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil && c.Type == html.TextNode; c = c.NextSibling {
		b.WriteString(c.Data)
	}
	return b.String()
}
