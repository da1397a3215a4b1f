package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"NewsChecker/internal/metrics"
	"NewsChecker/internal/ports"
)

const (
	phaseListing = "listing"
	phaseDetail  = "detail"
)

// CrawlerDeps wires all driven adapters into the crawl orchestrator.
type CrawlerDeps struct {
	Store    ports.Store
	Listing  ports.ListingSource
	Detail   *DetailProcessor
	Notifier ports.Notifier
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
	// Workers bounds concurrent article checks; 1 keeps retrieval order.
	Workers int
}

// Crawler runs the listing crawl and the detail check.
type Crawler struct {
	store    ports.Store
	listing  ports.ListingSource
	detail   *DetailProcessor
	notifier ports.Notifier
	metrics  *metrics.Recorder
	logger   *slog.Logger
	workers  int
}

// ListingReport summarizes a listing crawl.
type ListingReport struct {
	Topics   int
	Articles int
	Created  int
}

// DetailReport summarizes a detail check.
type DetailReport struct {
	Total   int
	Checked int
	Failed  int
	Broken  []BrokenFinding
}

// NewCrawler constructs the orchestration component.
func NewCrawler(deps CrawlerDeps) *Crawler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	return &Crawler{
		store:    deps.Store,
		listing:  deps.Listing,
		detail:   deps.Detail,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   logger,
		workers:  workers,
	}
}

// RunListingCrawl records every article of the latest listing date. New
// articles are created unchecked; re-sighted ones are reset to unchecked with
// their topic refreshed. Any error aborts the run; earlier upserts stay.
func (c *Crawler) RunListingCrawl(ctx context.Context) (report ListingReport, err error) {
	log := c.logger.With("run_id", uuid.NewString(), "phase", phaseListing)
	started := time.Now()
	defer func() { c.metrics.ObserveRun(phaseListing, err, time.Since(started)) }()

	if c.listing == nil || c.store == nil {
		return report, errors.New("listing crawl is not configured")
	}

	groups, err := c.listing.FetchListing(ctx)
	if err != nil {
		log.Error("listing crawl aborted", "error", err)
		return report, fmt.Errorf("listing crawl: %w", err)
	}

	for _, group := range groups {
		topic, err := c.store.UpsertTopic(ctx, group.Name)
		if err != nil {
			return report, fmt.Errorf("upsert topic %q: %w", group.Name, err)
		}
		report.Topics++

		for _, listed := range group.Articles {
			article, created, err := c.store.UpsertArticle(ctx, listed.Title, listed.Link, &topic.ID)
			if err != nil {
				return report, fmt.Errorf("upsert article %q: %w", listed.Link, err)
			}
			report.Articles++
			c.metrics.ArticleListed(created)

			if created {
				report.Created++
				log.Info("article added", "article_id", article.ID, "title", article.Title, "topic", topic.Name)
			} else {
				log.Info("article queued for recheck", "article_id", article.ID, "title", article.Title)
			}
		}
	}

	log.Info("listing crawl finished",
		"topics", report.Topics,
		"articles", report.Articles,
		"created", report.Created,
		"elapsed", time.Since(started))
	return report, nil
}

// RunDetailCheck processes a snapshot of unchecked articles. A failing article
// is logged and left unchecked; only a failed snapshot read aborts the run.
func (c *Crawler) RunDetailCheck(ctx context.Context) (report DetailReport, err error) {
	log := c.logger.With("run_id", uuid.NewString(), "phase", phaseDetail)
	started := time.Now()
	defer func() { c.metrics.ObserveRun(phaseDetail, err, time.Since(started)) }()

	if c.detail == nil || c.store == nil {
		return report, errors.New("detail check is not configured")
	}

	articles, err := c.store.FetchUncheckedArticles(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch unchecked articles: %w", err)
	}
	report.Total = len(articles)
	log.Info("detail check started", "articles", len(articles), "workers", c.workers)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(c.workers)

	for _, article := range articles {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result, procErr := c.detail.Process(ctx, article)
			c.metrics.ArticleChecked(procErr)

			mu.Lock()
			defer mu.Unlock()
			if procErr != nil {
				report.Failed++
				log.Error("article skipped", "article_id", article.ID, "link", article.Link, "error", procErr)
				return nil
			}
			report.Checked++
			report.Broken = append(report.Broken, result.Broken...)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(report.Broken, func(i, j int) bool {
		return report.Broken[i].ArticleID < report.Broken[j].ArticleID
	})

	log.Info("detail check finished",
		"checked", report.Checked,
		"failed", report.Failed,
		"broken_links", len(report.Broken),
		"elapsed", time.Since(started))

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("detail check interrupted: %w", err)
	}
	return report, nil
}

// Parse runs the listing crawl and then the detail check. A failed listing
// crawl does not skip the detail check of already known articles.
func (c *Crawler) Parse(ctx context.Context) error {
	_, listingErr := c.RunListingCrawl(ctx)

	report, detailErr := c.RunDetailCheck(ctx)
	c.notify(ctx, report.Broken)

	return errors.Join(listingErr, detailErr)
}

func (c *Crawler) notify(ctx context.Context, findings []BrokenFinding) {
	if c.notifier == nil || len(findings) == 0 {
		return
	}
	if err := c.notifier.PublishDigest(ctx, buildDigestMessage(findings)); err != nil {
		c.logger.Warn("broken link digest not delivered", "error", err)
	}
}

func buildDigestMessage(findings []BrokenFinding) string {
	if len(findings) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Broken links found: %d\n\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s\n  %s (%s)\n", f.ArticleTitle, f.URL, f.Reason)
	}
	return b.String()
}
