package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/ports"
)

var articleColumns = []string{"id", "title", "link", "topic_id", "html", "publication_date", "checked"}

var brokenLinkColumns = []string{"id", "article_id", "url", "fixed"}

// SQLRepository persists topics, articles and broken links in Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

var (
	_ ports.Store            = (*SQLRepository)(nil)
	_ ports.BrokenLinkReader = (*SQLRepository)(nil)
)

// NewSQLRepository wires a sql.DB opened for the dialect.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if dialect == DialectSQLite {
		placeholder = sq.Question
	}
	return &SQLRepository{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Migrate creates the schema if it does not exist.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if r.dialect == DialectSQLite {
		schema = sqliteSchema
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate %s schema: %w", r.dialect, err)
	}
	return nil
}

// UpsertTopic returns the topic with name, creating it on first sighting.
func (r *SQLRepository) UpsertTopic(ctx context.Context, name string) (domain.Topic, error) {
	insert, args, err := r.sb.Insert("topics").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.Topic{}, fmt.Errorf("build topic insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insert, args...); err != nil {
		return domain.Topic{}, fmt.Errorf("insert topic %q: %w", name, err)
	}

	query, args, err := r.sb.Select("id", "name").From("topics").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return domain.Topic{}, fmt.Errorf("build topic select: %w", err)
	}

	var topic domain.Topic
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&topic.ID, &topic.Name); err != nil {
		return domain.Topic{}, fmt.Errorf("select topic %q: %w", name, err)
	}
	return topic, nil
}

// UpsertArticle creates the article unchecked, or resets an existing one to
// unchecked and refreshes its topic. The bool reports whether it was created.
func (r *SQLRepository) UpsertArticle(ctx context.Context, title, link string, topicID *int64) (domain.Article, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("begin article upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	topic := nullInt64(topicID)
	insert, args, err := r.sb.Insert("articles").
		Columns("title", "link", "topic_id", "checked").
		Values(title, link, topic, false).
		Suffix("ON CONFLICT (title, link) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("build article insert: %w", err)
	}

	res, err := tx.ExecContext(ctx, insert, args...)
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("insert article %q: %w", link, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("insert article %q: %w", link, err)
	}
	created := affected > 0

	if !created {
		update, args, err := r.sb.Update("articles").
			Set("checked", false).
			Set("topic_id", topic).
			Where(sq.Eq{"title": title, "link": link}).
			ToSql()
		if err != nil {
			return domain.Article{}, false, fmt.Errorf("build article reset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, update, args...); err != nil {
			return domain.Article{}, false, fmt.Errorf("reset article %q: %w", link, err)
		}
	}

	query, args, err := r.sb.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"title": title, "link": link}).
		ToSql()
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("build article select: %w", err)
	}

	article, err := scanArticle(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("select article %q: %w", link, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Article{}, false, fmt.Errorf("commit article upsert: %w", err)
	}
	return article, created, nil
}

// SaveArticle stores the detail fields of an article.
func (r *SQLRepository) SaveArticle(ctx context.Context, article domain.Article) error {
	var date sql.NullTime
	if article.PublicationDate != nil {
		date = sql.NullTime{Time: *article.PublicationDate, Valid: true}
	}

	query, args, err := r.sb.Update("articles").
		Set("html", sql.NullString{String: article.HTML, Valid: article.HTML != ""}).
		Set("publication_date", date).
		Set("checked", article.Checked).
		Where(sq.Eq{"id": article.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build article update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article %d: %w", article.ID, err)
	}
	return requireRows(res, fmt.Errorf("article %d: %w", article.ID, domain.ErrNotFound))
}

// FetchUncheckedArticles returns a snapshot of all unchecked articles in id order.
func (r *SQLRepository) FetchUncheckedArticles(ctx context.Context) ([]domain.Article, error) {
	query, args, err := r.sb.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"checked": false}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unchecked select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unchecked: %w", err)
	}

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return articles, nil
}

// UpsertBrokenLink records url as broken and assigns it to articleID.
// The URL is unique; the last article to report it owns the record.
func (r *SQLRepository) UpsertBrokenLink(ctx context.Context, url string, articleID int64) (domain.BrokenLink, error) {
	insert, args, err := r.sb.Insert("broken_links").
		Columns("url", "article_id", "fixed").
		Values(url, articleID, false).
		Suffix("ON CONFLICT (url) DO UPDATE SET article_id = EXCLUDED.article_id").
		ToSql()
	if err != nil {
		return domain.BrokenLink{}, fmt.Errorf("build broken link upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insert, args...); err != nil {
		return domain.BrokenLink{}, fmt.Errorf("upsert broken link %q: %w", url, err)
	}

	query, args, err := r.sb.Select(brokenLinkColumns...).From("broken_links").Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return domain.BrokenLink{}, fmt.Errorf("build broken link select: %w", err)
	}

	link, err := scanBrokenLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.BrokenLink{}, fmt.Errorf("select broken link %q: %w", url, err)
	}
	return link, nil
}

// SaveBrokenLink updates the owner and fixed flag of a broken link.
func (r *SQLRepository) SaveBrokenLink(ctx context.Context, link domain.BrokenLink) error {
	query, args, err := r.sb.Update("broken_links").
		Set("article_id", link.ArticleID).
		Set("fixed", link.Fixed).
		Where(sq.Eq{"id": link.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build broken link update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update broken link %d: %w", link.ID, err)
	}
	return requireRows(res, fmt.Errorf("broken link %d: %w", link.ID, domain.ErrNotFound))
}

// GetBrokenLink loads a broken link by id.
func (r *SQLRepository) GetBrokenLink(ctx context.Context, id int64) (domain.BrokenLink, error) {
	query, args, err := r.sb.Select(brokenLinkColumns...).From("broken_links").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.BrokenLink{}, fmt.Errorf("build broken link select: %w", err)
	}

	link, err := scanBrokenLink(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BrokenLink{}, fmt.Errorf("broken link %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.BrokenLink{}, fmt.Errorf("select broken link %d: %w", id, err)
	}
	return link, nil
}

// ListBrokenLinks returns broken links in id order, only unfixed ones unless includeFixed.
func (r *SQLRepository) ListBrokenLinks(ctx context.Context, includeFixed bool) ([]domain.BrokenLink, error) {
	builder := r.sb.Select(brokenLinkColumns...).From("broken_links").OrderBy("id")
	if !includeFixed {
		builder = builder.Where(sq.Eq{"fixed": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build broken link list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query broken links: %w", err)
	}
	defer rows.Close()

	links := make([]domain.BrokenLink, 0)
	for rows.Next() {
		link, err := scanBrokenLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan broken link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return links, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		article domain.Article
		topicID sql.NullInt64
		html    sql.NullString
		date    sql.NullTime
	)
	if err := row.Scan(&article.ID, &article.Title, &article.Link, &topicID, &html, &date, &article.Checked); err != nil {
		return domain.Article{}, err
	}
	if topicID.Valid {
		id := topicID.Int64
		article.TopicID = &id
	}
	article.HTML = html.String
	if date.Valid {
		d := date.Time
		article.PublicationDate = &d
	}
	return article, nil
}

func scanBrokenLink(row rowScanner) (domain.BrokenLink, error) {
	var link domain.BrokenLink
	err := row.Scan(&link.ID, &link.ArticleID, &link.URL, &link.Fixed)
	return link, err
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func requireRows(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
