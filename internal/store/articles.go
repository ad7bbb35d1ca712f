package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poliux/poliux/pkg/models"
)

const articleColumns = `id,title,description,link,canonical_link,source_domain,publication,author,published_at,image_url`

// SaveArticles upserts collected articles keyed by link, so re-polling a feed
// never duplicates rows.
func (p *PgStore) SaveArticles(articles []*models.Article) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO rss_feed (id, title, description, link, canonical_link, source_domain, publication, author, published_at, image_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (link) DO UPDATE SET
 title=EXCLUDED.title,
 description=EXCLUDED.description,
 canonical_link=EXCLUDED.canonical_link,
 source_domain=EXCLUDED.source_domain,
 publication=EXCLUDED.publication,
 author=EXCLUDED.author,
 published_at=EXCLUDED.published_at,
 image_url=EXCLUDED.image_url;
`

	for _, a := range articles {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.PublishedAt.IsZero() {
			a.PublishedAt = time.Now().UTC()
		}

		_, err := tx.Exec(stmt,
			a.ID,
			a.Title,
			a.Description,
			a.Link,
			a.CanonicalLink,
			a.SourceDomain,
			a.Publication,
			a.Author,
			a.PublishedAt,
			a.ImageURL,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert article link=%s: %w", a.Link, err)
		}
	}

	return tx.Commit()
}

// RecentArticles returns articles published at or after since, newest first.
func (p *PgStore) RecentArticles(since time.Time, limit int) ([]*models.Article, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	rows := []*models.Article{}
	query := `
SELECT ` + articleColumns + `
FROM rss_feed
WHERE published_at >= $1
ORDER BY published_at DESC
LIMIT $2
`
	err := p.db.Select(&rows, query, since, limit)
	return rows, err
}

func (p *PgStore) GetArticle(id string) (*models.Article, error) {
	a := models.Article{}
	query := `SELECT ` + articleColumns + ` FROM rss_feed WHERE id = $1`
	err := p.db.Get(&a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PruneArticles deletes articles published before the cutoff and returns how
// many rows went away. Votes cascade.
func (p *PgStore) PruneArticles(before time.Time) (int64, error) {
	res, err := p.db.Exec(`DELETE FROM rss_feed WHERE published_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
