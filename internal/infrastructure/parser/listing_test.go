package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"NewsChecker/internal/domain"
)

const listingFixture = `
<html><body>
  <div class="news-date">15 Марта 2023</div>
  <p>between</p>
  <div class="news">
    <div class="news_i ">
      <div class="news_i_title-block"><a class="news_lk" href="/topics/law"> Законодательство </a></div>
      <ul>
        <li><a class="news_lst_i_lk news_lk" href="/news/1">
            First law article
        </a></li>
        <li><a class="news_lst_i_lk news_lk" href="https://kodeks.ru/news/2">Second law article</a></li>
      </ul>
    </div>
    <div class="news_tile">
      <div class="news_i_title-block"><a class="news_lk" href="/topics/court">Судебная практика</a></div>
      <a class="news_lst_i_lk news_lk" href="/news/3">Third</a>
      <a class="news_lk" href="/elsewhere">Not an article</a>
      <a class="news_lst_i_lk news_lk" href="/news/4">  Fourth  </a>
    </div>
    <div class="news_i">
      <a class="news_lst_i_lk news_lk" href="/news/5">Orphan without topic</a>
    </div>
    <section class="news_i"><div class="news_i_title-block"><a class="news_lk">Nested</a></div></section>
  </div>
  <div class="news-date">14 Марта 2023</div>
  <div class="news">
    <div class="news_i">
      <div class="news_i_title-block"><a class="news_lk">Older</a></div>
      <a class="news_lst_i_lk news_lk" href="/news/old">Old</a>
    </div>
  </div>
</body></html>`

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestExtractListing(t *testing.T) {
	t.Parallel()

	groups, err := ExtractListing(mustDocument(t, listingFixture), DefaultLayout())
	if err != nil {
		t.Fatalf("ExtractListing error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 topics, got %d: %+v", len(groups), groups)
	}

	want := []domain.TopicGroup{
		{Name: "Законодательство", Articles: []domain.ListedArticle{
			{Title: "First law article", Link: "/news/1"},
			{Title: "Second law article", Link: "https://kodeks.ru/news/2"},
		}},
		{Name: "Судебная практика", Articles: []domain.ListedArticle{
			{Title: "Third", Link: "/news/3"},
			{Title: "Fourth", Link: "/news/4"},
		}},
	}

	for i, group := range groups {
		if group.Name != want[i].Name {
			t.Fatalf("topic %d: expected %q, got %q", i, want[i].Name, group.Name)
		}
		if len(group.Articles) != len(want[i].Articles) {
			t.Fatalf("topic %q: expected %d articles, got %d", group.Name, len(want[i].Articles), len(group.Articles))
		}
		for j, article := range group.Articles {
			if article != want[i].Articles[j] {
				t.Fatalf("topic %q article %d: expected %+v, got %+v", group.Name, j, want[i].Articles[j], article)
			}
		}
	}
}

func TestExtractListingMissingMarker(t *testing.T) {
	t.Parallel()

	_, err := ExtractListing(mustDocument(t, `<div class="news"></div>`), DefaultLayout())
	if !errors.Is(err, domain.ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestExtractListingMissingContainer(t *testing.T) {
	t.Parallel()

	_, err := ExtractListing(mustDocument(t, `<div class="news-date">1 Мая 2024</div><div class="other"></div>`), DefaultLayout())
	if !errors.Is(err, domain.ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestExtractListingEmptyContainer(t *testing.T) {
	t.Parallel()

	groups, err := ExtractListing(mustDocument(t, `<div class="news-date"></div><div class="news"></div>`), DefaultLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no topics, got %d", len(groups))
	}
}

func TestDetailDate(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `<div class="article"><div class="date-tx"> 15 Марта 2023 </div></div>`)
	text, ok := DetailDate(doc, DefaultLayout())
	if !ok || text != "15 Марта 2023" {
		t.Fatalf("unexpected date text %q (found=%v)", text, ok)
	}

	if _, ok := DetailDate(mustDocument(t, `<p>no date</p>`), DefaultLayout()); ok {
		t.Fatalf("expected absent date element")
	}
}
