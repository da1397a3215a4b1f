package ports

import (
	"context"
	"time"

	"NewsChecker/internal/domain"
)

// Store is the persistence contract of the crawl pipeline. Upserts are atomic.
type Store interface {
	UpsertTopic(ctx context.Context, name string) (domain.Topic, error)
	UpsertArticle(ctx context.Context, title, link string, topicID *int64) (domain.Article, bool, error)
	SaveArticle(ctx context.Context, article domain.Article) error
	FetchUncheckedArticles(ctx context.Context) ([]domain.Article, error)
	UpsertBrokenLink(ctx context.Context, url string, articleID int64) (domain.BrokenLink, error)
	SaveBrokenLink(ctx context.Context, link domain.BrokenLink) error
}

// BrokenLinkReader backs the reporting endpoints.
type BrokenLinkReader interface {
	ListBrokenLinks(ctx context.Context, includeFixed bool) ([]domain.BrokenLink, error)
	GetBrokenLink(ctx context.Context, id int64) (domain.BrokenLink, error)
	SaveBrokenLink(ctx context.Context, link domain.BrokenLink) error
}

// Page is a fetched document decoded to UTF-8.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

// PageFetcher downloads listing and detail pages.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// ListingSource returns the topic groups of the most recent listing date.
type ListingSource interface {
	FetchListing(ctx context.Context) ([]domain.TopicGroup, error)
}

// DetailExtractor pulls the publication date and anchors out of an article page.
type DetailExtractor interface {
	ExtractDetail(body string) (domain.DetailPage, error)
}

// Verdict is the classification of a single href.
type Verdict struct {
	Href   string
	URL    string
	Broken bool
	Reason string
}

// LinkClassifier decides whether an href is reachable. It never returns an error.
type LinkClassifier interface {
	Classify(ctx context.Context, href string) Verdict
}

// Notifier streams broken-link digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
