package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/poliux/poliux/pkg/models"
)

// InsertEvent appends one analytics event. internal_analytics is write-only
// from this service's point of view.
func (p *PgStore) InsertEvent(e *models.AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.Exec(`
INSERT INTO internal_analytics (id, user_id, event_type, article_id, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, e.ID, e.UserID, e.EventType, e.ArticleID, e.Metadata, e.CreatedAt)
	return err
}

// InsertReport files a user problem report into the inbox with status "new".
func (p *PgStore) InsertReport(r *models.Report) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = "new"
	}
	r.CreatedAt = time.Now().UTC()
	_, err := p.db.Exec(`
INSERT INTO report_inbox (id, user_id, subject, body, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, r.ID, r.UserID, r.Subject, r.Body, r.Status, r.CreatedAt)
	return err
}
