package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/ports"
)

// DetailExtractor implements ports.DetailExtractor for article pages.
type DetailExtractor struct {
	layout Layout
	months MonthTable
}

var _ ports.DetailExtractor = (*DetailExtractor)(nil)

// NewDetailExtractor uses RussianMonths when months is empty and rejects
// incomplete month tables.
func NewDetailExtractor(layout Layout, months MonthTable) (*DetailExtractor, error) {
	if len(months) == 0 {
		months = RussianMonths
	}
	if err := months.Validate(); err != nil {
		return nil, fmt.Errorf("month table: %w", err)
	}
	return &DetailExtractor{layout: layout, months: months}, nil
}

// ExtractDetail parses the page. A missing or malformed date is reported in
// DateErr and never fails the extraction.
func (e *DetailExtractor) ExtractDetail(body string) (domain.DetailPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return domain.DetailPage{}, fmt.Errorf("%w: parse article: %v", domain.ErrStructure, err)
	}

	var page domain.DetailPage
	if text, ok := DetailDate(doc, e.layout); !ok {
		page.DateErr = fmt.Errorf("%w: no div.%s date element", domain.ErrStructure, e.layout.DetailDateClass)
	} else if date, err := ParseLocalizedDate(text, e.months); err != nil {
		page.DateErr = err
	} else {
		page.PublicationDate = &date
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := Attr(a, "href")
		if !ok {
			page.AnchorsWithoutHref++
			return
		}
		page.Hrefs = append(page.Hrefs, href)
	})

	return page, nil
}
