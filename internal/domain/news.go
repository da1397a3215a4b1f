package domain

import "time"

// Topic is a named grouping under which articles are listed.
type Topic struct {
	ID   int64
	Name string
}

// Article is a listed news item; identity is the (Title, Link) pair.
type Article struct {
	ID              int64
	Title           string
	Link            string
	TopicID         *int64
	HTML            string
	PublicationDate *time.Time
	Checked         bool
}

// BrokenLink records an unreachable URL found on an article page.
// URL is globally unique; ArticleID points at the last article it was seen on.
type BrokenLink struct {
	ID        int64
	ArticleID int64
	URL       string
	Fixed     bool
}

// ListedArticle is an article anchor found on the listing page.
type ListedArticle struct {
	Title string
	Link  string
}

// TopicGroup is one topic block of the listing page in document order.
type TopicGroup struct {
	Name     string
	Articles []ListedArticle
}
