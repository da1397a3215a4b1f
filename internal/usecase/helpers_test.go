package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/infrastructure/fetcher"
	"NewsChecker/internal/infrastructure/linkcheck"
	"NewsChecker/internal/infrastructure/parser"
	"NewsChecker/internal/infrastructure/storage"
	"NewsChecker/internal/ports"
)

const siteBase = "https://kodeks.test"

const articlePage = `<html><body>
<div class="date-tx">15 Марта 2023</div>
<p>See <a href="/broken">this</a> and <a href="https://example.com">that</a>.</p>
<p><a href="mailto:editor@kodeks.test">write us</a></p>
</body></html>`

const cleanPage = `<html><body>
<div class="date-tx">1 Января 2024</div>
<a href="https://example.com">ok</a>
</body></html>`

// rerouteTransport sends every request to the test server regardless of host.
type rerouteTransport struct {
	target *url.URL
}

func (t rerouteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

// newSite serves article pages, a dead link and a healthy external root.
func newSite(t *testing.T) *http.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/news/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/news/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/news/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cleanPage))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("example"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return &http.Client{Transport: rerouteTransport{target: target}, Timeout: 5 * time.Second}
}

func newStore(t *testing.T) *storage.SQLRepository {
	t.Helper()

	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DialectSQLite, filepath.Join(t.TempDir(), "news.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := storage.NewSQLRepository(db, storage.DialectSQLite)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func newDetailProcessor(t *testing.T, client *http.Client, store ports.Store) *DetailProcessor {
	t.Helper()

	extractor, err := parser.NewDetailExtractor(parser.DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	return NewDetailProcessor(DetailDeps{
		Store:      store,
		Fetcher:    fetcher.New(client, "newschecker-test", 0),
		Extractor:  extractor,
		Classifier: linkcheck.New(client, linkcheck.Options{BaseURL: siteBase, Timeout: 5 * time.Second}, nil),
	})
}

func seedArticle(t *testing.T, store ports.Store, title, path string) domain.Article {
	t.Helper()

	ctx := context.Background()
	topic, err := store.UpsertTopic(ctx, "Законодательство")
	if err != nil {
		t.Fatalf("upsert topic: %v", err)
	}
	article, _, err := store.UpsertArticle(ctx, title, siteBase+path, &topic.ID)
	if err != nil {
		t.Fatalf("upsert article: %v", err)
	}
	return article
}

// staticListing returns the same topic groups on every call.
type staticListing struct {
	groups []domain.TopicGroup
	err    error
}

func (s staticListing) FetchListing(context.Context) ([]domain.TopicGroup, error) {
	return s.groups, s.err
}

// recordingNotifier captures digests.
type recordingNotifier struct {
	mu      sync.Mutex
	digests []string
	err     error
}

func (n *recordingNotifier) PublishDigest(_ context.Context, digest string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digests = append(n.digests, digest)
	return n.err
}

// failingStore fails SaveArticle for one article id.
type failingStore struct {
	ports.Store
	failID int64
}

func (s failingStore) SaveArticle(ctx context.Context, article domain.Article) error {
	if article.ID == s.failID {
		return fmt.Errorf("disk full")
	}
	return s.Store.SaveArticle(ctx, article)
}
