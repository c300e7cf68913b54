package springer

// Structural markers on a Springer Link book page.
const (
	bibliographicSectionSelector = "section[data-title='Bibliographic Information']"
	bibliographicItemSelector    = "li[class*='c-bibliographic-information__list-item']"
	itemLabelSelector            = "span[class*='u-text-bold']"
	itemValueSelector            = "span[class*='c-bibliographic-information__value']"
	publicationDateSelector      = "span[data-test*='publication_date']"
	aboutSectionSelector         = "section[data-title='About this book']"
	aboutContentSelector         = "div[class*='c-book-section']"
	topicLinkSelector            = "a"
)

// Labels as printed in the Bibliographic Information list.
const (
	LabelBookTitle     = "Book Title"
	LabelBookSubtitle  = "Book Subtitle"
	LabelEditors       = "Editors"
	LabelDOI           = "DOI"
	LabelPublisher     = "Publisher"
	LabelEBookISBN     = "eBook ISBN"
	LabelSoftcoverISBN = "Softcover ISBN"
	LabelTopics        = "Topics"

	// isbnLabelMarker marks labels whose item also carries a publication date.
	isbnLabelMarker = "ISBN"
	// dateLabelSuffix is appended to an ISBN label to key its publication date.
	dateLabelSuffix = " Date"
	// publishedPrefix precedes the date inside the publication date marker.
	publishedPrefix = "Published:"
)

// Target is a semantic record field fed from the Raw Field Map.
type Target int

const (
	TargetTitle Target = iota
	TargetSubtitle
	TargetEditors
	TargetDOI
	TargetPublisher
	TargetPubDate
)

func (t Target) String() string {
	switch t {
	case TargetTitle:
		return "title"
	case TargetSubtitle:
		return "subtitle"
	case TargetEditors:
		return "editors"
	case TargetDOI:
		return "doi"
	case TargetPublisher:
		return "publisher"
	case TargetPubDate:
		return "pubdate"
	default:
		return "unknown"
	}
}

// labelTable lists, per target, the field map keys to read in order of
// preference. The first non-empty value wins. A page layout change that
// renames a label only needs an update here.
var labelTable = map[Target][]string{
	TargetTitle:     {LabelBookTitle},
	TargetSubtitle:  {LabelBookSubtitle},
	TargetEditors:   {LabelEditors},
	TargetDOI:       {LabelDOI},
	TargetPublisher: {LabelPublisher},
	TargetPubDate:   {LabelEBookISBN + dateLabelSuffix, LabelSoftcoverISBN + dateLabelSuffix},
}

// FieldMap maps bibliographic labels to their free-text values.
type FieldMap map[string]string

// Lookup returns the first non-empty value among the labels mapped to target.
func (f FieldMap) Lookup(target Target) (string, bool) {
	for _, label := range labelTable[target] {
		if v := f[label]; v != "" {
			return v, true
		}
	}
	return "", false
}
