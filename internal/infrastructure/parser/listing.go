package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"NewsChecker/internal/domain"
)

// Layout names the structural markers of the listing and detail pages.
type Layout struct {
	DateMarkerClass    string   `yaml:"dateMarkerClass"`
	ContainerClass     string   `yaml:"containerClass"`
	GroupClasses       []string `yaml:"groupClasses"`
	TitleBlockClass    string   `yaml:"titleBlockClass"`
	TopicLinkClass     string   `yaml:"topicLinkClass"`
	ArticleLinkClasses []string `yaml:"articleLinkClasses"`
	DetailDateClass    string   `yaml:"detailDateClass"`
}

// DefaultLayout matches the kodeks.ru news pages.
func DefaultLayout() Layout {
	return Layout{
		DateMarkerClass:    "news-date",
		ContainerClass:     "news",
		GroupClasses:       []string{"news_i", "news_tile"},
		TitleBlockClass:    "news_i_title-block",
		TopicLinkClass:     "news_lk",
		ArticleLinkClasses: []string{"news_lst_i_lk", "news_lk"},
		DetailDateClass:    "date-tx",
	}
}

// ExtractListing walks the news block of the most recent date and groups
// article anchors under their topic heading, in document order.
func ExtractListing(doc *goquery.Document, layout Layout) ([]domain.TopicGroup, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrStructure)
	}

	marker, ok := FindFirst(doc.Selection, "div", HasClass(layout.DateMarkerClass))
	if !ok {
		return nil, fmt.Errorf("%w: no div.%s date marker", domain.ErrStructure, layout.DateMarkerClass)
	}

	container, ok := NextSibling(marker, "div", HasClass(layout.ContainerClass))
	if !ok {
		return nil, fmt.Errorf("%w: no div.%s after date marker", domain.ErrStructure, layout.ContainerClass)
	}

	var groups []domain.TopicGroup
	for _, block := range DirectChildren(container, "div", layout.GroupClasses...) {
		name, ok := topicName(block, layout)
		if !ok {
			continue
		}

		group := domain.TopicGroup{Name: name}
		block.Find("a").Each(func(_ int, a *goquery.Selection) {
			if !HasAllClasses(layout.ArticleLinkClasses...)(a) {
				return
			}
			href, ok := Attr(a, "href")
			if !ok || href == "" {
				return
			}
			group.Articles = append(group.Articles, domain.ListedArticle{
				Title: Text(a),
				Link:  href,
			})
		})

		groups = append(groups, group)
	}

	return groups, nil
}

func topicName(block *goquery.Selection, layout Layout) (string, bool) {
	titleBlock, ok := FindFirst(block, "div", HasClass(layout.TitleBlockClass))
	if !ok {
		return "", false
	}
	anchor, ok := FindFirst(titleBlock, "a", HasClass(layout.TopicLinkClass))
	if !ok {
		return "", false
	}
	name := Text(anchor)
	return name, name != ""
}

// DetailDate returns the trimmed text of the article date element.
func DetailDate(doc *goquery.Document, layout Layout) (string, bool) {
	if doc == nil {
		return "", false
	}
	node, ok := FindFirst(doc.Selection, "div", HasClass(layout.DetailDateClass))
	if !ok {
		return "", false
	}
	return Text(node), true
}
