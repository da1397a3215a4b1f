package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/ports"
)

// ListingSource implements ports.ListingSource over a single listing page.
type ListingSource struct {
	fetcher    ports.PageFetcher
	listingURL string
	baseURL    string
	layout     Layout
	logger     *slog.Logger
}

var _ ports.ListingSource = (*ListingSource)(nil)

// NewListingSource wires the fetcher with the listing page location.
func NewListingSource(fetcher ports.PageFetcher, listingURL, baseURL string, layout Layout, log *slog.Logger) *ListingSource {
	return &ListingSource{
		fetcher:    fetcher,
		listingURL: listingURL,
		baseURL:    baseURL,
		layout:     layout,
		logger:     log,
	}
}

// FetchListing downloads the listing page once and extracts its topic groups.
// Article links are resolved against the base URL.
func (s *ListingSource) FetchListing(ctx context.Context) ([]domain.TopicGroup, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("listing fetcher is not configured")
	}

	page, err := s.fetcher.Fetch(ctx, s.listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse listing: %v", domain.ErrStructure, err)
	}

	groups, err := ExtractListing(doc, s.layout)
	if err != nil {
		return nil, fmt.Errorf("extract listing %s: %w", s.listingURL, err)
	}

	total := 0
	for i := range groups {
		for j := range groups[i].Articles {
			groups[i].Articles[j].Link = domain.ResolveLink(groups[i].Articles[j].Link, s.baseURL)
		}
		total += len(groups[i].Articles)
	}

	s.debug("listing extracted", "topics", len(groups), "articles", total)
	return groups, nil
}

func (s *ListingSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
