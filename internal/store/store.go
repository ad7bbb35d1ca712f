package store

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Sentinel errors translated to HTTP statuses by the api layer.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

// isUniqueViolation matches Postgres error class 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS rss_feed(
  id UUID PRIMARY KEY,
  title TEXT,
  description TEXT,
  link TEXT NOT NULL,
  canonical_link TEXT,
  source_domain TEXT,
  publication TEXT,
  author TEXT,
  published_at TIMESTAMPTZ,
  image_url TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_rss_feed_link ON rss_feed(link);
CREATE INDEX IF NOT EXISTS idx_rss_feed_published ON rss_feed(published_at);
CREATE INDEX IF NOT EXISTS idx_rss_feed_domain ON rss_feed(source_domain);

CREATE TABLE IF NOT EXISTS article_votes(
  article_id UUID NOT NULL REFERENCES rss_feed(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL,
  vote_type TEXT NOT NULL CHECK (vote_type IN ('up','down')),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (article_id, user_id)
);

CREATE TABLE IF NOT EXISTS bills(
  id UUID PRIMARY KEY,
  bill_number TEXT NOT NULL,
  title TEXT,
  description TEXT,
  status TEXT,
  session TEXT,
  subjects JSONB,
  last_action TEXT,
  last_action_date TIMESTAMPTZ,
  url TEXT
);

CREATE INDEX IF NOT EXISTS idx_bills_number ON bills(bill_number);

CREATE TABLE IF NOT EXISTS people(
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  party TEXT,
  role TEXT,
  state TEXT,
  district TEXT
);

CREATE TABLE IF NOT EXISTS campaigns(
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_campaigns_owner ON campaigns(owner_id);

CREATE TABLE IF NOT EXISTS campaign_bills(
  campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
  bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
  PRIMARY KEY (campaign_id, bill_id)
);

CREATE TABLE IF NOT EXISTS campaign_legislators(
  campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
  person_id UUID NOT NULL REFERENCES people(id) ON DELETE CASCADE,
  PRIMARY KEY (campaign_id, person_id)
);

CREATE TABLE IF NOT EXISTS campaign_documents(
  id UUID PRIMARY KEY,
  campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  added_by TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaign_notes(
  id UUID PRIMARY KEY,
  campaign_id UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tracked_bills(
  user_id TEXT NOT NULL,
  bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (user_id, bill_id)
);

CREATE TABLE IF NOT EXISTS simple_bill_analysis(
  id UUID PRIMARY KEY,
  bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
  summary TEXT,
  generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analysis_bill ON simple_bill_analysis(bill_id, generated_at);

CREATE TABLE IF NOT EXISTS report_inbox(
  id UUID PRIMARY KEY,
  user_id TEXT NOT NULL,
  subject TEXT NOT NULL,
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'new',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS internal_analytics(
  id UUID PRIMARY KEY,
  user_id TEXT,
  event_type TEXT NOT NULL,
  article_id UUID,
  metadata JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analytics_type ON internal_analytics(event_type, created_at);
`
	_, err := db.Exec(initSQL)
	return err
}
