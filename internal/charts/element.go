package charts

import "html/template"

// Anchor identifiers the history page provides.
const (
	YearDistributionID = "yearDistributionChart"
	EntrySourceID      = "entrySourceChart"
)

// Dataset attribute keys, as in data-year-labels and friends.
const (
	AttrYearLabels   = "year-labels"
	AttrYearData     = "year-data"
	AttrAdminCount   = "admin-count"
	AttrCompanyCount = "company-count"
)

// Element is a chart anchor: an identifier, its data attributes and the
// markup that ends up inside its container.
type Element struct {
	ID      string
	Dataset map[string]string
	Content template.HTML
}

// NewElement returns an anchor with the given data attributes.
func NewElement(id string, dataset map[string]string) *Element {
	if dataset == nil {
		dataset = map[string]string{}
	}
	return &Element{ID: id, Dataset: dataset}
}

// Page looks anchors up by identifier.
type Page struct {
	elements map[string]*Element
}

// NewPage returns a page holding els.
func NewPage(els ...*Element) *Page {
	p := &Page{elements: make(map[string]*Element, len(els))}
	for _, el := range els {
		p.elements[el.ID] = el
	}
	return p
}

// Element returns the anchor with the given identifier.
func (p *Page) Element(id string) (*Element, bool) {
	el, ok := p.elements[id]
	return el, ok
}
