package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/metrics"
	"NewsChecker/internal/ports"
)

// DetailDeps wires the adapters used by the detail processor.
type DetailDeps struct {
	Store      ports.Store
	Fetcher    ports.PageFetcher
	Extractor  ports.DetailExtractor
	Classifier ports.LinkClassifier
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
}

// DetailProcessor validates one article: date, content and every hyperlink.
type DetailProcessor struct {
	store      ports.Store
	fetcher    ports.PageFetcher
	extractor  ports.DetailExtractor
	classifier ports.LinkClassifier
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// BrokenFinding is a broken link found on an article page.
type BrokenFinding struct {
	ArticleID    int64
	ArticleTitle string
	URL          string
	Reason       string
}

// ArticleReport summarizes one detail pass.
type ArticleReport struct {
	Article     domain.Article
	LinksSeen   int
	LinksProbed int
	Broken      []BrokenFinding
}

// NewDetailProcessor constructs the component.
func NewDetailProcessor(deps DetailDeps) *DetailProcessor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DetailProcessor{
		store:      deps.Store,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		classifier: deps.Classifier,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Process fetches the article page, records its date and content, classifies
// every href and neutralizes broken ones. The article is saved as checked only
// when every step succeeded; on error it stays unchecked.
func (d *DetailProcessor) Process(ctx context.Context, article domain.Article) (ArticleReport, error) {
	log := d.logger.With("article_id", article.ID, "link", article.Link)

	page, err := d.fetcher.Fetch(ctx, article.Link)
	if err != nil {
		return ArticleReport{}, fmt.Errorf("fetch article %d: %w", article.ID, err)
	}

	detail, err := d.extractor.ExtractDetail(page.Body)
	if err != nil {
		return ArticleReport{}, fmt.Errorf("extract article %d: %w", article.ID, err)
	}

	article.HTML = page.Body
	article.PublicationDate = detail.PublicationDate
	article.Checked = false
	if detail.DateErr != nil {
		log.Warn("publication date not recorded", "error", detail.DateErr)
	}

	if err := d.store.SaveArticle(ctx, article); err != nil {
		return ArticleReport{}, fmt.Errorf("save article %d: %w", article.ID, err)
	}
	log.Info("article updated", "title", article.Title)

	if detail.AnchorsWithoutHref > 0 {
		log.Debug("anchors without href skipped", "count", detail.AnchorsWithoutHref)
	}

	report := ArticleReport{LinksSeen: len(detail.Hrefs)}
	seen := make(map[string]struct{}, len(detail.Hrefs))
	var brokenURLs []string

	for _, href := range detail.Hrefs {
		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}

		verdict := d.classifier.Classify(ctx, href)
		report.LinksProbed++
		d.metrics.LinkClassified(verdict.Broken)
		if !verdict.Broken {
			continue
		}

		log.Warn("broken link", "href", href, "url", verdict.URL, "reason", verdict.Reason)
		if _, err := d.store.UpsertBrokenLink(ctx, href, article.ID); err != nil {
			return ArticleReport{}, fmt.Errorf("record broken link %q: %w", href, err)
		}

		brokenURLs = append(brokenURLs, href)
		report.Broken = append(report.Broken, BrokenFinding{
			ArticleID:    article.ID,
			ArticleTitle: article.Title,
			URL:          href,
			Reason:       verdict.Reason,
		})
	}

	if len(brokenURLs) > 0 {
		article.HTML = RewriteBrokenLinks(article.HTML, brokenURLs...)
		log.Info("article html rewritten", "broken_links", len(brokenURLs))
	}

	article.Checked = true
	if err := d.store.SaveArticle(ctx, article); err != nil {
		return ArticleReport{}, fmt.Errorf("mark article %d checked: %w", article.ID, err)
	}

	report.Article = article
	return report, nil
}
