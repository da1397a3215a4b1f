package storage

const postgresSchema = `
CREATE TABLE IF NOT EXISTS topics (
    id   BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS articles (
    id               BIGSERIAL PRIMARY KEY,
    topic_id         BIGINT REFERENCES topics(id) ON DELETE SET NULL,
    title            VARCHAR(300) NOT NULL,
    link             TEXT NOT NULL,
    html             TEXT,
    publication_date DATE,
    checked          BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (title, link)
);

CREATE INDEX IF NOT EXISTS idx_articles_unchecked ON articles (id) WHERE checked = FALSE;

CREATE TABLE IF NOT EXISTS broken_links (
    id         BIGSERIAL PRIMARY KEY,
    article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    url        TEXT NOT NULL UNIQUE,
    fixed      BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_broken_links_unfixed ON broken_links (id) WHERE fixed = FALSE;
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS topics (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS articles (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    topic_id         INTEGER REFERENCES topics(id) ON DELETE SET NULL,
    title            TEXT NOT NULL,
    link             TEXT NOT NULL,
    html             TEXT,
    publication_date DATE,
    checked          BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (title, link)
);

CREATE INDEX IF NOT EXISTS idx_articles_checked ON articles (checked);

CREATE TABLE IF NOT EXISTS broken_links (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    url        TEXT NOT NULL UNIQUE,
    fixed      BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_broken_links_fixed ON broken_links (fixed);
`
