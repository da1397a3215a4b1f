package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLRepository(db, DialectPostgres), mock
}

func TestPostgresUpsertArticleExisting(t *testing.T) {
	repo, mock := newPostgresMock(t)
	topicID := int64(7)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles (title,link,topic_id,checked) VALUES ($1,$2,$3,$4) ON CONFLICT (title, link) DO NOTHING")).
		WithArgs("Title", "https://kodeks.ru/news/1", topicID, false).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE articles SET checked = \$1, topic_id = \$2 WHERE \(?link = \$3 AND title = \$4\)?`).
		WithArgs(false, topicID, "https://kodeks.ru/news/1", "Title").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, title, link, topic_id, html, publication_date, checked FROM articles WHERE \(?link = \$1 AND title = \$2\)?`).
		WithArgs("https://kodeks.ru/news/1", "Title").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(int64(3), "Title", "https://kodeks.ru/news/1", topicID, "<p></p>", nil, false))
	mock.ExpectCommit()

	article, created, err := repo.UpsertArticle(context.Background(), "Title", "https://kodeks.ru/news/1", &topicID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), article.ID)
	assert.Equal(t, "<p></p>", article.HTML)
	assert.Nil(t, article.PublicationDate)
	require.NotNil(t, article.TopicID)
	assert.Equal(t, topicID, *article.TopicID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertArticleCreated(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO articles").
		WithArgs("Title", "/news/2", nil, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM articles").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(int64(4), "Title", "/news/2", nil, nil, nil, false))
	mock.ExpectCommit()

	article, created, err := repo.UpsertArticle(context.Background(), "Title", "/news/2", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, article.TopicID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertBrokenLinkReassignsOwner(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO broken_links (url,article_id,fixed) VALUES ($1,$2,$3) ON CONFLICT (url) DO UPDATE SET article_id = EXCLUDED.article_id")).
		WithArgs("/broken", int64(9), false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, article_id, url, fixed FROM broken_links WHERE url = $1")).
		WithArgs("/broken").
		WillReturnRows(sqlmock.NewRows(brokenLinkColumns).AddRow(int64(1), int64(9), "/broken", false))

	link, err := repo.UpsertBrokenLink(context.Background(), "/broken", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), link.ArticleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertTopic(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO topics (name) VALUES ($1) ON CONFLICT (name) DO NOTHING")).
		WithArgs("law").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM topics WHERE name = $1")).
		WithArgs("law").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "law"))

	topic, err := repo.UpsertTopic(context.Background(), "law")
	require.NoError(t, err)
	assert.Equal(t, int64(2), topic.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
