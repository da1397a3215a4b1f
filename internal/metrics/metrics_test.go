package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := New()
	r.ObserveRun("detail", nil, time.Second)
	r.ObserveRun("detail", errors.New("boom"), time.Second)
	r.ArticleListed(true)
	r.ArticleListed(false)
	r.ArticleChecked(nil)
	r.LinkClassified(true)
	r.LinkClassified(true)

	if got := testutil.ToFloat64(r.links.WithLabelValues("broken")); got != 2 {
		t.Fatalf("expected 2 broken links, got %v", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues("detail", "error")); got != 1 {
		t.Fatalf("expected 1 failed run, got %v", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "newschecker_articles_total") {
		t.Fatalf("exposition missing articles counter")
	}
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.ObserveRun("listing", nil, time.Second)
	r.ArticleListed(true)
	r.ArticleChecked(nil)
	r.LinkClassified(false)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil recorder, got %d", rec.Code)
	}
}
