package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Predicate filters candidate nodes. A nil Predicate matches everything.
type Predicate func(*goquery.Selection) bool

// HasClass matches nodes carrying the class.
func HasClass(class string) Predicate {
	return func(s *goquery.Selection) bool {
		return s.HasClass(class)
	}
}

// HasAllClasses matches nodes carrying every listed class.
func HasAllClasses(classes ...string) Predicate {
	return func(s *goquery.Selection) bool {
		for _, class := range classes {
			if !s.HasClass(class) {
				return false
			}
		}
		return len(classes) > 0
	}
}

// Any matches nodes carrying at least one of the classes.
func Any(classes ...string) Predicate {
	return func(s *goquery.Selection) bool {
		for _, class := range classes {
			if s.HasClass(strings.TrimSpace(class)) {
				return true
			}
		}
		return false
	}
}

// FindFirst returns the first descendant of root with the tag that satisfies match.
func FindFirst(root *goquery.Selection, tag string, match Predicate) (*goquery.Selection, bool) {
	if root == nil {
		return nil, false
	}

	var found *goquery.Selection
	root.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match == nil || match(s) {
			found = s
			return false
		}
		return true
	})

	return found, found != nil
}

// DirectChildren returns the direct children of node with the tag whose class
// attribute contains any of classes. Without classes every tag child matches.
func DirectChildren(node *goquery.Selection, tag string, classes ...string) []*goquery.Selection {
	if node == nil {
		return nil
	}

	var children []*goquery.Selection
	node.ChildrenFiltered(tag).Each(func(_ int, s *goquery.Selection) {
		if len(classes) == 0 || Any(classes...)(s) {
			children = append(children, s)
		}
	})
	return children
}

// NextSibling returns the closest following sibling with the tag that satisfies match.
func NextSibling(node *goquery.Selection, tag string, match Predicate) (*goquery.Selection, bool) {
	if node == nil {
		return nil, false
	}

	var found *goquery.Selection
	node.First().NextAllFiltered(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match == nil || match(s) {
			found = s
			return false
		}
		return true
	})

	return found, found != nil
}

// Text returns the trimmed text content of node.
func Text(node *goquery.Selection) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Text())
}

// Attr returns the named attribute of the first node in the selection.
func Attr(node *goquery.Selection, name string) (string, bool) {
	if node == nil {
		return "", false
	}
	return node.First().Attr(name)
}
