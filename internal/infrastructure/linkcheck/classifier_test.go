package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("fine"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/broken", http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &hits
}

func TestClassify(t *testing.T) {
	t.Parallel()

	server, _ := newSite(t)
	c := New(server.Client(), Options{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	ctx := context.Background()

	cases := []struct {
		href   string
		broken bool
		reason string
	}{
		{"/ok", false, ""},
		{server.URL + "/ok", false, ""},
		{"/broken", true, "http_404"},
		{"/fail", true, "http_502"},
		{"/moved", true, "http_404"},
		{"mailto:editor@kodeks.ru", false, ""},
		{"tel:+78121234567", false, ""},
		{"http://[::1", true, ReasonNetworkError},
	}

	for _, tc := range cases {
		v := c.Classify(ctx, tc.href)
		if v.Broken != tc.broken || v.Reason != tc.reason {
			t.Fatalf("Classify(%q) = %+v, want broken=%v reason=%q", tc.href, v, tc.broken, tc.reason)
		}
		if v.Href != tc.href {
			t.Fatalf("Classify(%q) lost original href: %q", tc.href, v.Href)
		}
	}

	if v := c.Classify(ctx, "/broken"); v.URL != server.URL+"/broken" {
		t.Fatalf("expected resolved url, got %q", v.URL)
	}
}

func TestClassifyNonNavigableSkipsNetwork(t *testing.T) {
	t.Parallel()

	server, hits := newSite(t)
	c := New(server.Client(), Options{BaseURL: server.URL}, nil)

	for _, href := range []string{"mailto:a@b.c", "MAILTO:a@b.c", "tel:123", "/contacts?tel:1"} {
		if v := c.Classify(context.Background(), href); v.Broken {
			t.Fatalf("%q should be valid", href)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no probes, got %d", hits.Load())
	}
}

func TestClassifyUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c := New(nil, Options{BaseURL: base, Timeout: 2 * time.Second}, nil)
	if v := c.Classify(context.Background(), "/anything"); !v.Broken || v.Reason != ReasonNetworkError {
		t.Fatalf("expected network_error, got %+v", v)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	t.Parallel()

	c := New(nil, Options{BaseURL: "", Timeout: time.Second}, nil)
	inputs := []string{"", " ", "#", "javascript:void(0)", "%%%", "http://", "https://\x00", "ftp://x", "/relative/without/base"}

	for _, href := range inputs {
		v := c.Classify(context.Background(), href)
		if !v.Broken || v.Reason != ReasonNetworkError {
			t.Fatalf("Classify(%q) = %+v, want network_error", href, v)
		}
	}
}
